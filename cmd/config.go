package cmd

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/ndp-scot/cdr-gateway/lib/api"
)

// Env var prefixes routed into the configuration tree; anything else in the
// environment is ignored.
var envPrefixes = map[string]string{
	"EMPI_":     "empi",
	"MDDH_":     "mddh",
	"NCDS_":     "ncds",
	"DDERM_":    "dderm",
	"SERVER_":   "server",
	"KEYVAULT_": "keyvault",
	"OPENEHR_":  "openehr",
}

// Flat env vars without a structured prefix.
var envAliases = map[string]string{
	"LOG_LEVEL":           "loglevel",
	"SECRETS_MANAGER_TTL": "secretsmanagerttl",
}

type Config struct {
	// EMPI holds the configuration for the NDP Demographics Service API.
	EMPI UpstreamConfig `koanf:"empi"`
	// MDDH holds the configuration for the Medical Device Registry API.
	MDDH UpstreamConfig `koanf:"mddh"`
	// NCDS holds the configuration for the National Clinical Data Store API.
	NCDS UpstreamConfig `koanf:"ncds"`
	// DDerm holds the configuration for the Digital Dermatology Store API.
	DDerm    UpstreamConfig  `koanf:"dderm"`
	Server   InterfaceConfig `koanf:"server"`
	KeyVault KeyVaultConfig  `koanf:"keyvault"`
	OpenEHR  OpenEHRConfig   `koanf:"openehr"`
	LogLevel zerolog.Level   `koanf:"loglevel"`
	// SecretsManagerTTL is the secrets cache lifetime in seconds.
	SecretsManagerTTL int `koanf:"secretsmanagerttl"`
}

func (c Config) Validate() error {
	for name, upstream := range map[string]UpstreamConfig{
		"EMPI": c.EMPI, "MDDH": c.MDDH, "NCDS": c.NCDS, "DDERM": c.DDerm,
	} {
		if err := upstream.Validate(); err != nil {
			return fmt.Errorf("invalid %s configuration: %w", name, err)
		}
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server address is not configured")
	}
	return nil
}

func (c Config) SecretsTTL() time.Duration {
	return time.Duration(c.SecretsManagerTTL) * time.Second
}

// UpstreamConfig is the environment-facing form of one upstream API
// configuration.
type UpstreamConfig struct {
	BaseURL  string             `koanf:"baseurl"`
	BasePath string             `koanf:"basepath"`
	APIKey   string             `koanf:"apikey"`
	Auth     UpstreamAuthConfig `koanf:"auth"`
}

type UpstreamAuthConfig struct {
	Type          string `koanf:"type"`
	User          string `koanf:"user"`
	Password      string `koanf:"password"`
	TokenEndpoint string `koanf:"tokenendpoint"`
	ClientID      string `koanf:"clientid"`
	ClientSecret  string `koanf:"clientsecret"`
	TokenScope    string `koanf:"tokenscope"`
	// SecretsManagerSecretName points at a secrets-store document that
	// overrides this whole upstream configuration when present.
	SecretsManagerSecretName string `koanf:"secretsmanagersecretname"`
}

func (c UpstreamConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is not configured")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	switch api.AuthType(c.Auth.Type) {
	case "", api.AuthDisabled:
	case api.AuthBasic:
		if c.Auth.User == "" || c.Auth.Password == "" {
			return fmt.Errorf("basic auth requires user and password")
		}
	case api.AuthClientCredentials:
		if c.Auth.TokenEndpoint == "" || c.Auth.ClientID == "" || c.Auth.ClientSecret == "" {
			return fmt.Errorf("client_credentials auth requires token endpoint, client ID and client secret")
		}
	default:
		return fmt.Errorf("unsupported auth mechanism: %s", c.Auth.Type)
	}
	return nil
}

// APIConfig converts to the api.Config form the clients are built from.
func (c UpstreamConfig) APIConfig(secretsTTL time.Duration) api.Config {
	result := api.Config{
		BaseURL:  c.BaseURL,
		BasePath: c.BasePath,
		APIKey:   c.APIKey,
		Auth:     api.AuthConfig{Type: api.AuthType(c.Auth.Type)},
	}
	if result.Auth.Type == "" {
		result.Auth.Type = api.AuthDisabled
	}
	switch result.Auth.Type {
	case api.AuthBasic:
		result.Auth.Basic = &api.BasicAuthConfig{
			Username: c.Auth.User,
			Password: c.Auth.Password,
		}
	case api.AuthClientCredentials:
		result.Auth.ClientCredentials = &api.ClientCredentialsConfig{
			TokenEndpoint: c.Auth.TokenEndpoint,
			ClientID:      c.Auth.ClientID,
			ClientSecret:  c.Auth.ClientSecret,
			Scope:         c.Auth.TokenScope,
		}
	}
	if c.Auth.SecretsManagerSecretName != "" {
		result.Auth.SecretsManager = &api.SecretsManagerConfig{
			SecretName: c.Auth.SecretsManagerSecretName,
			TTL:        secretsTTL,
		}
	}
	return result
}

// InterfaceConfig holds the configuration for the HTTP interface.
type InterfaceConfig struct {
	// Address holds the address to listen on.
	Address string `koanf:"address"`
}

// KeyVaultConfig connects the secrets store. An empty URL disables it.
type KeyVaultConfig struct {
	URL string `koanf:"url"`
	// Insecure allows plain-HTTP vault URLs, for tests only.
	Insecure bool `koanf:"insecure"`
}

type OpenEHRConfig struct {
	TemplateID     string `koanf:"templateid"`
	ServerNodeName string `koanf:"servernodename"`
}

// LoadConfig loads the configuration from the environment.
func LoadConfig() (*Config, error) {
	result := DefaultConfig()
	if err := loadConfigInto(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func loadConfigInto(target any) error {
	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue("", ".", func(key string, value string) (string, interface{}) {
		return configKey(key), value
	}), nil)
	if err != nil {
		return err
	}
	return k.Unmarshal("", target)
}

// configKey maps an environment variable name onto the configuration tree;
// an empty result drops the variable. AUTH_ segments keep their own level,
// the remaining underscores only separate words: EMPI_AUTH_TOKEN_ENDPOINT
// becomes empi.auth.tokenendpoint.
func configKey(name string) string {
	if alias, ok := envAliases[name]; ok {
		return alias
	}
	for prefix, root := range envPrefixes {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if authRest, ok := strings.CutPrefix(rest, "AUTH_"); ok {
			return root + ".auth." + squash(authRest)
		}
		return root + "." + squash(rest)
	}
	return ""
}

func squash(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// DefaultConfig returns sensible, but not complete, default configuration values.
func DefaultConfig() Config {
	return Config{
		EMPI: UpstreamConfig{
			BaseURL:  "https://empi.staging.platform.ndp.scot/",
			BasePath: "/",
		},
		MDDH: UpstreamConfig{
			BaseURL:  "https://staging.api.ndp.scot/medical-device-register",
			BasePath: "/",
		},
		NCDS: UpstreamConfig{
			BaseURL:  "https://staging.api.ndp.scot/medical-device-register",
			BasePath: "/",
		},
		DDerm: UpstreamConfig{
			BaseURL:  "https://staging.api.ndp.scot/storage/digital-dermatology",
			BasePath: "/",
		},
		Server:   InterfaceConfig{Address: ":8080"},
		LogLevel: zerolog.InfoLevel,
		OpenEHR: OpenEHRConfig{
			TemplateID:     "NES_TS Medical Devices Data Hub.v0 (6)",
			ServerNodeName: "integration-test.mddh.dss.ndp.scot",
		},
		SecretsManagerTTL: 60,
	}
}
