package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// Logger is a middleware that logs HTTP requests
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info("HTTP request",
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path),
					logger.String("remote_addr", r.RemoteAddr),
					logger.Int("status", ww.Status()),
					logger.Int("bytes", ww.BytesWritten()),
					logger.Any("duration", time.Since(start)),
					logger.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
