package middleware

import (
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// Recover turns a panic anywhere downstream into an error for onError. It has
// to be the outermost stage so that every other stage is covered.
//
// A panic after the response has started cannot be answered with an error
// body; it is logged and the connection is aborted instead.
func Recover(onError ErrorHandler, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = withBodyHolder(r)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				err = errors.WithStack(err)

				if ww.Status() != 0 {
					logger.Error("Panic after response started",
						zap.String("path", r.URL.RequestURI()),
						zap.String("method", r.Method),
						zap.Int("status", ww.Status()),
						zap.Int("bytes", ww.BytesWritten()),
						zap.String("request_id", ww.Header().Get(constants.HeaderXRequestID)),
						zap.String("stack", fmt.Sprintf("%+v", err)),
					)
					panic(http.ErrAbortHandler)
				}
				onError(ww, r, err)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
