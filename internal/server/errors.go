package server

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/constants"
	"github.com/leslieo2/lanc-compliance/internal/httperr"
	"github.com/leslieo2/lanc-compliance/internal/server/middleware"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// handleError is the terminal stage for every failure: handler errors,
// middleware rejections and recovered panics. Errors without an explicit
// status become a 500 with a generic message.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, explicit := httperr.StatusOf(err)
	message := constants.MessageInternalError
	if explicit {
		message = clientMessage(err)
	}

	resp := s.newErrorResponse(r, status, httperr.Kind(status), message)
	stack := stackOf(err)

	requestID := middleware.RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = w.Header().Get(constants.HeaderXRequestID)
	}

	s.logger.Error(constants.ErrorKindServer,
		zap.String("kind", resp.Error),
		zap.String("message", resp.Message),
		zap.Int("status", resp.Status),
		zap.String("timestamp", resp.Timestamp),
		zap.String("path", resp.Path),
		zap.String("method", resp.Method),
		zap.String("request_id", requestID),
		zap.String("ip", middleware.ClientIP(r)),
		zap.String("stack", stack),
		zap.Any("body", middleware.BodyFromContext(r.Context())),
		zap.NamedError("cause", err),
	)

	var body any = resp
	if !s.config.IsProduction() {
		body = DebugErrorResponse{ErrorResponse: resp, Stack: stack}
	}
	if werr := writeJSON(w, status, body); werr != nil {
		s.logger.Error("Failed to write error response", zap.Error(werr))
	}
}

// notFoundHandler answers every unmatched path or method.
func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) error {
	uri := r.URL.RequestURI()
	resp := s.newErrorResponse(r, http.StatusNotFound, constants.ErrorKindNotFound,
		fmt.Sprintf("Route %s %s not found", r.Method, uri))

	s.logger.Warn("404 Not Found",
		zap.String("kind", resp.Error),
		zap.String("message", resp.Message),
		zap.Int("status", resp.Status),
		zap.String("timestamp", resp.Timestamp),
		zap.String("path", resp.Path),
		zap.String("method", resp.Method),
	)

	return writeJSON(w, http.StatusNotFound, resp)
}

func (s *Server) newErrorResponse(r *http.Request, status int, kind, message string) ErrorResponse {
	return ErrorResponse{
		Error:     kind,
		Message:   message,
		Status:    status,
		Timestamp: s.process.Now(),
		Path:      r.URL.RequestURI(),
		Method:    r.Method,
	}
}

// clientMessage returns the message meant for clients. Wrapping context added
// around an httperr.Error stays server side.
func clientMessage(err error) string {
	var he *httperr.Error
	if errors.As(err, &he) {
		return he.Error()
	}
	return err.Error()
}

// stackOf renders err with the stack where it was first wrapped, or the
// current stack when nothing captured one.
func stackOf(err error) string {
	var st stackTracer
	if !errors.As(err, &st) {
		st = errors.WithStack(err).(stackTracer)
	}
	return fmt.Sprintf("%s%+v", err.Error(), st.StackTrace())
}
