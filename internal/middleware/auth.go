package middleware

import (
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/myapp/internal/utils"
)

// RequireTokenForWrites lets reads through and demands a bearer JWT signed
// with secret for every other method. An empty secret disables the check.
func RequireTokenForWrites(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, "Authentication credentials were not provided.")
				return
			}

			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				unauthorized(w, "Invalid token header.")
				return
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				unauthorized(w, "Invalid token header.")
				return
			}

			if _, err := utils.VerifyToken(token, secret); err != nil {
				unauthorized(w, "Invalid token.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	utils.JSONError(w, http.StatusUnauthorized, detail)
}
