// Package oauth2 implements sitefinity.Authenticator with the OAuth 2.0
// resource owner password grant against Sitefinity's OpenID endpoint.
package oauth2

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/sitefinity"
	"golang.org/x/oauth2"
)

// Ensure Authenticator implements sitefinity.Authenticator at compile time.
var _ sitefinity.Authenticator = (*Authenticator)(nil)

// Scope requested with every token.
const Scope = "openid"

// Authenticator exchanges credentials for a bearer token.
type Authenticator struct {
	client *http.Client
}

// NewAuthenticator creates a new Authenticator.
// If client is nil, http.DefaultClient is used.
func NewAuthenticator(client *http.Client) *Authenticator {
	return &Authenticator{client: client}
}

// Authenticate posts the password grant to tokenURL and returns a session
// whose Authorization header is "{token_type} {access_token}".
func (a *Authenticator) Authenticate(ctx context.Context, tokenURL string, creds *sitefinity.Credentials) (*sitefinity.Session, error) {
	if creds == nil {
		return nil, sitefinity.Errorf(sitefinity.EINVALID, "credentials required")
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{Scope},
	}

	if a.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)
	}

	tok, err := conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, tokenError(ctx, tokenURL, err)
	}

	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = tok.Type()
	}
	return &sitefinity.Session{Authorization: tokenType + " " + tok.AccessToken}, nil
}

// tokenError maps a token request failure to an application error.
func tokenError(ctx context.Context, tokenURL string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		if strings.Contains(err.Error(), "missing access_token") {
			return sitefinity.Errorf(sitefinity.EAUTH, "token response from %s has no access token", tokenURL)
		}
		return sitefinity.Errorf(sitefinity.ENETWORK, "token request to %s: %v", tokenURL, err)
	}

	status := 0
	if rerr.Response != nil {
		status = rerr.Response.StatusCode
	}
	detail := rerr.ErrorCode
	if rerr.ErrorDescription != "" {
		detail += ": " + rerr.ErrorDescription
	}
	if detail == "" {
		detail = strings.TrimSpace(string(rerr.Body))
	}

	if status == http.StatusUnauthorized {
		return sitefinity.Errorf(sitefinity.EUNAUTHORIZED, "unauthorized: token endpoint rejected the credentials (HTTP 401): %s", detail)
	}
	return sitefinity.Errorf(sitefinity.EAUTH, "authentication failed (HTTP %d): %s", status, detail)
}
