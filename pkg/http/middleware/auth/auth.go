package auth

import (
	"context"
	"net/http"
)

// Identity is the authenticated principal resolved by the auth gateway
// in front of this service. The gateway strips any client-supplied
// identity headers and installs its own after verifying the session.
type Identity struct {
	UserID   string
	Email    string
	Name     string
	Username string
	Role     string
}

type ctxKey struct{}

const (
	RoleUser     = "USER"
	RoleMerchant = "MERCHANT"
)

// NewAuthMiddleware reads the identity headers installed by the auth
// gateway and rejects requests that carry none.
func NewAuthMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := Identity{
				UserID:   r.Header.Get("X-User-Id"),
				Email:    r.Header.Get("X-User-Email"),
				Name:     r.Header.Get("X-User-Name"),
				Username: r.Header.Get("X-User-Username"),
				Role:     r.Header.Get("X-User-Role"),
			}

			if identity.UserID == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext extracts the authenticated identity from the context.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(Identity)

	return identity, ok
}
