package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"copilot-ops/internal/response"
)

type ctxKey struct{}

// BasicAuth admits requests carrying the given credentials and stores the
// login in the request context. An empty username disables the check.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if username == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !equal(user, username) || !equal(pass, password) {
				requireAuth(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// User returns the login admitted by BasicAuth, or "".
func User(ctx context.Context) string {
	user, _ := ctx.Value(ctxKey{}).(string)
	return user
}

func equal(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func requireAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="copilot"`)
	response.Error(w, r, http.StatusUnauthorized, "unauthorized")
}
