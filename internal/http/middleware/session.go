package middleware

import (
	"context"
	"net/http"

	"github.com/diagnosis/visitor-portal/internal/session"
	"github.com/diagnosis/visitor-portal/pkg/auth"
	"github.com/diagnosis/visitor-portal/pkg/logger"
)

type ctxKey string

const ctxSession ctxKey = "session"

// LoadSession attaches the browser's session to the request context. When
// the store cannot be read the request continues with a fresh session.
func LoadSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Load(r)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to load session", "error", err)
			}

			ctx := context.WithValue(r.Context(), ctxSession, s)
			if s.Authenticated() {
				if claims, err := auth.Inspect(s.Token); err == nil && claims.Subject != "" {
					ctx = context.WithValue(ctx, logger.UserIDKey, claims.Subject)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireToken passes authenticated requests on and hands the rest to
// onMissing. It must run after LoadSession.
func RequireToken(onMissing http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s := Session(r); s == nil || !s.Authenticated() {
				onMissing(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Session returns the session LoadSession attached, or nil.
func Session(r *http.Request) *session.Session {
	if v := r.Context().Value(ctxSession); v != nil {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
