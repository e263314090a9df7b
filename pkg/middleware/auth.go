package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/logger"
	"github.com/shashiranjanraj/wardrobe/pkg/response"
)

// TokenAuthenticator resolves a bearer token to the live caller identity.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromCtx returns the caller attached by Authenticate.
func PrincipalFromCtx(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(auth.Principal)
	return p, ok
}

// RoleFromCtx returns the caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	p, ok := PrincipalFromCtx(r.Context())
	return p.Role, ok
}

// UserIDFromCtx returns the caller's user id.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	p, ok := PrincipalFromCtx(r.Context())
	return p.UserID, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate rejects requests without a valid bearer token before they
// reach the handler, and attaches the resolved caller to the context.
func Authenticate(a TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Access token required")
				return
			}

			p, err := a.Authenticate(r.Context(), token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
