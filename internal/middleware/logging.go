package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"nudgepay/internal/logger"
)

// RequestLogger logs one line per request with zap. Credentials in headers
// are masked before they reach the log. Mounted after Tracing, each line
// carries the request's trace and span ids.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)
			reqLog := logger.WithTrace(r.Context(), log)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.Bool("htmx", r.Header.Get("HX-Request") == "true"),
			}
			if status >= http.StatusInternalServerError {
				fields = append(fields, zap.Any("headers", logger.MaskHeaders(r.Header)))
				reqLog.Error("request failed", fields...)
				return
			}
			reqLog.Info("request", fields...)
		})
	}
}
