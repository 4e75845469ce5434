// Package api implements the Noteboard REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starling/noteboard/internal/models"
)

type contextKey int

const principalKey contextKey = iota

// Resolver maps a bearer token to a principal. The second return value is
// false for unknown tokens.
type Resolver func(token string) (models.Principal, bool)

// AuthMiddleware attaches a principal to every request. With enabled=false
// all requests run as the anonymous principal. With enabled=true requests
// must carry "Authorization: Bearer <token>" and the token must resolve.
func AuthMiddleware(enabled bool, resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, withPrincipal(r, models.Principal{Name: "Anonymous"}))
				return
			}
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			principal, ok := resolve(token)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, withPrincipal(r, principal))
		})
	}
}

func withPrincipal(r *http.Request, p models.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

// PrincipalFrom returns the principal attached by AuthMiddleware.
func PrincipalFrom(ctx context.Context) models.Principal {
	p, _ := ctx.Value(principalKey).(models.Principal)
	return p
}
