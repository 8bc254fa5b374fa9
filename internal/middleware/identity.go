package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/model"
)

// IdentityResolver turns request headers into verified claims.
type IdentityResolver interface {
	CurrentIdentity(h http.Header) *auth.Claims
}

// Identity resolves the bearer token once per request and stores the claims
// in the request context. Requests without a valid token pass through
// unauthenticated; RequireAuth decides whether that is acceptable.
func Identity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := resolver.CurrentIdentity(r.Header)
			if claims == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.ClaimsFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ValidID rejects requests whose URL parameter is not a 24-hex identifier.
// It runs before authentication so malformed ids always yield 400.
func ValidID(param, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !model.IsValidID(chi.URLParam(r, param)) {
				writeError(w, http.StatusBadRequest, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
