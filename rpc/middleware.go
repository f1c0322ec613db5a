package rpc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// requestLogger logs every request with method, path, status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// requireAdmin gates the owner endpoints behind the bearer token. With no
// token configured the admin surface is disabled entirely.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, errorBody{Error: "admin endpoints disabled", Code: CodeUnauthorized})
			return
		}
		token, ok := bearerToken(r)
		if !ok || !s.auth.Verify(token) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, errorBody{Error: "invalid admin token", Code: CodeUnauthorized})
			return
		}
		next.ServeHTTP(w, r)
	})
}
