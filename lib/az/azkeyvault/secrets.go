// Package azkeyvault implements the secrets store on Azure Key Vault.
// Stored secrets hold JSON documents structurally compatible with api.Config,
// allowing statically configured upstream credentials to be overridden at
// startup.
package azkeyvault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"

	"github.com/ndp-scot/cdr-gateway/lib/api"
)

var AzureHttpRequestDoer policy.Transporter = http.DefaultClient

// SecretsClient is the subset of the azsecrets.Client surface the store needs.
type SecretsClient interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

var _ api.SecretsStore = &SecretsStore{}

type SecretsStore struct {
	client SecretsClient
	cache  *ttlcache.Cache[string, *api.Config]
}

// NewSecretsStore connects to the Key Vault at vaultURL using the ambient
// Azure credential. Fetched secrets are cached for ttl.
func NewSecretsStore(vaultURL string, insecure bool, ttl time.Duration) (*SecretsStore, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to acquire Azure credential: %w", err)
	}
	clientOptions := &azsecrets.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Transport: AzureHttpRequestDoer,
		},
	}
	if insecure {
		clientOptions.InsecureAllowCredentialWithHTTP = true
	}
	client, err := azsecrets.NewClient(vaultURL, cred, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to create Key Vault client: %w", err)
	}
	return newSecretsStore(client, ttl), nil
}

func newSecretsStore(client SecretsClient, ttl time.Duration) *SecretsStore {
	cache := ttlcache.New[string, *api.Config](
		ttlcache.WithTTL[string, *api.Config](ttl),
	)
	go cache.Start()
	return &SecretsStore{client: client, cache: cache}
}

// APIConfig fetches the API configuration document stored under the given
// secret name. A missing secret is not an error: it returns nil, and callers
// fall back to their static configuration.
func (s *SecretsStore) APIConfig(ctx context.Context, name string) (*api.Config, error) {
	if item := s.cache.Get(name); item != nil {
		return item.Value(), nil
	}
	log.Ctx(ctx).Debug().Msgf("Reading API credentials from secret %s", name)
	response, err := s.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		var responseError *azcore.ResponseError
		if errors.As(err, &responseError) && responseError.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read secret %s: %w", name, err)
	}
	if response.Value == nil {
		return nil, nil
	}
	var config api.Config
	if err := json.Unmarshal([]byte(*response.Value), &config); err != nil {
		return nil, fmt.Errorf("secret %s does not hold a valid API configuration: %w", name, err)
	}
	s.cache.Set(name, &config, ttlcache.DefaultTTL)
	return &config, nil
}
