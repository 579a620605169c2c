package directory

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
)

// tokenPath is the application-only token endpoint, relative to the API base URL.
const tokenPath = "/oauth2/token"

// ExchangeToken trades a consumer key and secret for an application bearer token.
// It is called once per run; a failure is fatal for the run.
func ExchangeToken(ctx context.Context, baseURL, key, secret string, hc *http.Client) (string, error) {
	if key == "" {
		return "", errors.NewConfigError("credentials", "consumer key is not set", errors.ErrAPIKeyRequired)
	}
	if secret == "" {
		return "", errors.NewConfigError("credentials", "consumer secret is not set", errors.ErrAPIKeyRequired)
	}

	cfg := clientcredentials.Config{
		ClientID:     key,
		ClientSecret: secret,
		TokenURL:     strings.TrimRight(baseURL, "/") + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		return "", errors.NewAuthenticationError(providerName, "client_credentials", "token exchange failed", err)
	}
	if tok.AccessToken == "" {
		return "", errors.NewAuthenticationError(providerName, "client_credentials", "token response carried no access token", nil)
	}
	return tok.AccessToken, nil
}
