package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
)

const refreshTokenTTL = 8760 * time.Hour

type credentialsVerifier struct {
	users *database.UserStore
}

func CredentialsVerifier(users *database.UserStore) oauth.CredentialsVerifier {
	return &credentialsVerifier{users}
}

// NewBearerServer issues access and refresh tokens for admin accounts.
func NewBearerServer(users *database.UserStore, secret string, ttl time.Duration) *oauth.BearerServer {
	return oauth.NewBearerServer(secret, ttl, CredentialsVerifier(users), nil)
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	_, err := cs.users.Authenticate(r.Context(), username, password)
	return err
}
func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cs.users.StoreToken(context.Background(), credential, tokenID, refreshTokenID, time.Now().Add(refreshTokenTTL))
}
func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cs.users.ConsumeToken(context.Background(), credential, tokenID, refreshTokenID)
}
func (cs *credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	roles, err := cs.users.Roles(r.Context(), credential)
	if err != nil {
		return nil, err
	}
	return map[string]string{"roles": strings.Join(roles, ",")}, nil
}
func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}
func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}

// RequestCredential reads the credential the oauth.Authorize middleware put
// in the request context. It is empty for unauthenticated requests.
func RequestCredential(r *http.Request) forms.Credential {
	cred := forms.Credential{}
	if subject, ok := r.Context().Value(oauth.CredentialContext).(string); ok {
		cred.Subject = subject
	}
	if claims, ok := r.Context().Value(oauth.ClaimsContext).(map[string]string); ok {
		if roles := claims["roles"]; roles != "" {
			cred.Roles = strings.Split(roles, ",")
		}
	}
	return cred
}
