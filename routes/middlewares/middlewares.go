package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
)

// Admin requires a valid bearer token whose credential the authorizer
// accepts as an administrator.
func Admin(secret string, authorizer forms.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), admin(authorizer)).Handler(next)
	}
}

func admin(authorizer forms.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := httpx.RequestCredential(r)
			if !authorizer.IsAuthorizedAdmin(cred) {
				httpx.LogStatus(w, http.StatusForbidden, log.DebugLevel, "auth.not_admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
