package http

import (
	"context"
	"net/http"
	"strings"

	"leoniportal/internal/service"
)

type claimsKey struct{}

// bearerToken pulls the raw token out of "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// requireAuth rejects requests without a verifiable session token. Missing,
// malformed, forged and expired tokens all get the same 401 body.
func requireAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeFailure(w, http.StatusUnauthorized, "missing or malformed token")
				return
			}
			claims, err := tokens.Verify(raw)
			if err != nil {
				writeFailure(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFromContext(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return c, ok
}
