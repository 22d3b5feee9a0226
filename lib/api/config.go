// Package api contains the building blocks every upstream integration is
// assembled from: per-upstream configuration, auth-header derivation and a
// generic, status-agnostic REST client.
package api

import (
	"context"
	"time"
)

type AuthType string

const (
	AuthDisabled          AuthType = "disabled"
	AuthBasic             AuthType = "basic"
	AuthClientCredentials AuthType = "client_credentials"
)

// Config is the per-upstream API configuration. The JSON tags match the
// document stored in the secrets store, so a fetched secret can replace a
// statically configured value wholesale.
type Config struct {
	BaseURL  string     `json:"baseUrl"`
	BasePath string     `json:"basePath,omitempty"`
	APIKey   string     `json:"apiKey,omitempty"`
	Auth     AuthConfig `json:"auth"`
}

// AuthConfig selects exactly one auth strategy: Type determines which of
// Basic/ClientCredentials is populated.
type AuthConfig struct {
	Type              AuthType                 `json:"type"`
	Basic             *BasicAuthConfig         `json:"basic,omitempty"`
	ClientCredentials *ClientCredentialsConfig `json:"clientCredentials,omitempty"`
	// SecretsManager is the store self-reference; it is never part of the
	// stored secret document itself.
	SecretsManager *SecretsManagerConfig `json:"-"`
}

type BasicAuthConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ClientCredentialsConfig struct {
	TokenEndpoint string `json:"tokenEndpoint"`
	ClientID      string `json:"clientId"`
	ClientSecret  string `json:"clientSecret"`
	Scope         string `json:"scope,omitempty"`
}

type SecretsManagerConfig struct {
	SecretName string
	TTL        time.Duration
}

// SecretsStore fetches an API configuration document by secret name.
// A nil result without error means no value is stored under that name.
type SecretsStore interface {
	APIConfig(ctx context.Context, name string) (*Config, error)
}

// Resolve applies the optional secrets-store override: when the config
// references a secret and the store holds a value for it, the stored document
// replaces the static config wholesale (the store reference itself is kept).
// Absence of a stored value is not an error.
func Resolve(ctx context.Context, cfg Config, store SecretsStore) (Config, error) {
	if store == nil || cfg.Auth.SecretsManager == nil || cfg.Auth.SecretsManager.SecretName == "" {
		return cfg, nil
	}
	override, err := store.APIConfig(ctx, cfg.Auth.SecretsManager.SecretName)
	if err != nil {
		return Config{}, err
	}
	if override == nil {
		return cfg, nil
	}
	resolved := *override
	resolved.Auth.SecretsManager = cfg.Auth.SecretsManager
	return resolved, nil
}
