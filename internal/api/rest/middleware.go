package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// principal is the authenticated caller, extracted once from the bearer
// token and passed explicitly into every handler that needs it.
type principal struct {
	Username string
	Role     user.Role
}

// authedFunc is a handler that requires an authenticated principal.
type authedFunc func(w http.ResponseWriter, r *http.Request, p principal)

// authed wraps a handler with bearer token verification. A missing or
// invalid token never reaches the handler.
func (s *Server) authed(next authedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			apperr.Write(w, r, apperr.Unauthorized("Missing or invalid Authorization header"))
			return
		}
		claims, err := s.tokens.Verify(strings.TrimPrefix(raw, "Bearer "))
		if err != nil {
			apperr.Write(w, r, apperr.Unauthorized("Invalid or expired token"))
			return
		}
		next(w, r, principal{Username: claims.Subject, Role: claims.Role})
	}
}

// statusWriter records the status code written by the handler chain.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// withLogging tags every request with a request id and logs its outcome.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		zlog.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// withRecovery converts handler panics into the standard 500 envelope so a
// single bad request cannot take the process down.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				apperr.Write(w, r, apperr.Internalf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
