package middleware

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
)

// Authenticator reports whether a backend session is active.
type Authenticator interface {
	Authenticated() bool
}

// RequireSession rejects requests with 401 Unauthorized while nobody is logged in,
// so they never reach the backend without a token.
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Authenticated() {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrNoSession.Error(), "log in first")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
