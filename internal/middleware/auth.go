package middleware

import (
	"net/http"
	"strings"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/auth"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

// AuthMiddleware validates the Bearer token on every request and stores the
// authenticated principal in the request context. Unauthenticated requests
// are rejected before they reach a handler, except for the exempt paths
// (health checks don't carry a token).
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, claims.GetUserID(), claims.Email))
		})
	}
}
