package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"flabi/internal/domain"
)

// SessionCookie carries the session token for the HTML pages.
const SessionCookie = "flabi_session"

type sessionKey struct{}
type tokenKey struct{}

// SessionResolver turns a token into a session. A nil session means
// anonymous.
type SessionResolver interface {
	CurrentSession(token string) (*domain.Session, error)
}

// Session resolves the bearer token or session cookie on every request and
// stores the result, which may be nil, in the context.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			session, err := resolver.CurrentSession(token)
			if err != nil {
				session = nil
			}
			ctx := context.WithValue(r.Context(), tokenKey{}, token)
			ctx = ContextWithSession(ctx, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests without an admin session with a JSON 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="flabi"`)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "unauthorized", "message": "admin session required"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest prefers the Authorization header over the cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func SessionFromContext(ctx context.Context) *domain.Session {
	if v, ok := ctx.Value(sessionKey{}).(*domain.Session); ok {
		return v
	}
	return nil
}

// TokenFromContext returns the raw token seen by Session, if any.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}

func ContextWithSession(ctx context.Context, session *domain.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}
