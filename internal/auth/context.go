package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/stash/internal/identity"
)

type sessionKey struct{}

func WithSession(ctx context.Context, session *identity.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by Middleware, or nil.
func SessionFromContext(ctx context.Context) *identity.Session {
	session, _ := ctx.Value(sessionKey{}).(*identity.Session)
	return session
}

type tokenValidator interface {
	Validate(token string) (*identity.Session, error)
}

// Middleware rejects requests without a valid bearer token with 401.
func Middleware(validator tokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := validator.Validate(bearerToken(r))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
