package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// RequestLogger logs every request on arrival and again at debug level once
// the response is written. It assigns a request id, reusing an incoming
// X-Request-ID when present.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(constants.HeaderXRequestID, requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

			logger.Info(r.Method+" "+r.URL.Path,
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("ip", ClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
				zap.String("request_id", requestID),
			)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.Debug("request completed",
					zap.String("request_id", requestID),
					zap.Int("status_code", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
