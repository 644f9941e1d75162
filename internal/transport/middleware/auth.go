package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Auth creates a bearer-token middleware. An empty token disables the
// check, matching the optional API_AUTH_TOKEN setting.
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			presented := strings.TrimPrefix(authHeader, "Bearer ")
			if presented == authHeader ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
