package api

import (
	"context"
	"encoding/base64"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthHeader derives the Authorization header value for the given config.
// It returns an empty string when auth is disabled. For client credentials it
// performs a one-off OAuth2 token request; the token is never refreshed, so
// expiry during the process lifetime is a known limitation.
func AuthHeader(ctx context.Context, cfg Config) (string, error) {
	auth := cfg.Auth
	if auth.Type == "" || auth.Type == AuthDisabled {
		return "", nil
	}
	switch {
	case auth.Basic != nil:
		log.Info().Msgf("Configuring API with basic auth - username %s", auth.Basic.Username)
		key := base64.StdEncoding.EncodeToString([]byte(auth.Basic.Username + ":" + auth.Basic.Password))
		return "Basic " + key, nil
	case auth.ClientCredentials != nil:
		log.Info().Msgf("Configuring API with client credentials auth - client ID %s", auth.ClientCredentials.ClientID)
		token, err := fetchClientCredentialsToken(ctx, *auth.ClientCredentials)
		if err != nil {
			return "", err
		}
		return token.Type() + " " + token.AccessToken, nil
	default:
		return "", fmt.Errorf("unsupported auth mechanism: %s", auth.Type)
	}
}

// fetchClientCredentialsToken posts a form-encoded client_credentials grant
// (client_id and client_secret in the request body) to the token endpoint.
func fetchClientCredentialsToken(ctx context.Context, cfg ClientCredentialsConfig) (*oauth2.Token, error) {
	conf := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenEndpoint,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if cfg.Scope != "" {
		conf.Scopes = []string{cfg.Scope}
	}
	token, err := conf.Token(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get OAuth token")
	}
	return token, nil
}
