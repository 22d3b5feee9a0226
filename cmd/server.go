package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndp-scot/cdr-gateway/demographics"
	"github.com/ndp-scot/cdr-gateway/dermatology"
	"github.com/ndp-scot/cdr-gateway/devices"
	"github.com/ndp-scot/cdr-gateway/graph"
	"github.com/ndp-scot/cdr-gateway/healthcheck"
	"github.com/ndp-scot/cdr-gateway/immunization"
	"github.com/ndp-scot/cdr-gateway/lib/api"
	"github.com/ndp-scot/cdr-gateway/lib/az/azkeyvault"
)

func Start(ctx context.Context, config Config) error {
	// Set up dependencies
	httpHandler := http.NewServeMux()
	var secretsStore api.SecretsStore
	if config.KeyVault.URL != "" {
		store, err := azkeyvault.NewSecretsStore(config.KeyVault.URL, config.KeyVault.Insecure, config.SecretsTTL())
		if err != nil {
			return fmt.Errorf("failed to connect the secrets store: %w", err)
		}
		secretsStore = store
	}

	// Connect the upstream services
	secretsTTL := config.SecretsTTL()
	demographicsService, err := demographics.New(ctx, config.EMPI.APIConfig(secretsTTL), secretsStore)
	if err != nil {
		return fmt.Errorf("failed to create demographics service: %w", err)
	}
	devicesService, err := devices.New(ctx, config.MDDH.APIConfig(secretsTTL), secretsStore, config.OpenEHR.ServerNodeName)
	if err != nil {
		return fmt.Errorf("failed to create devices service: %w", err)
	}
	dermatologyService, err := dermatology.New(ctx, config.DDerm.APIConfig(secretsTTL), secretsStore)
	if err != nil {
		return fmt.Errorf("failed to create dermatology service: %w", err)
	}
	immunizationService, err := immunization.New(ctx, config.NCDS.APIConfig(secretsTTL), secretsStore)
	if err != nil {
		return fmt.Errorf("failed to create immunization service: %w", err)
	}

	// Register services
	services := []Service{
		graph.New(demographicsService, devicesService, dermatologyService, immunizationService),
		healthcheck.New(map[string]healthcheck.Pinger{
			"empi":  demographicsService,
			"mddh":  devicesService,
			"dderm": dermatologyService,
			"ncds":  immunizationService,
		}),
	}
	for _, service := range services {
		service.RegisterHandlers(httpHandler)
	}

	// Start HTTP server
	err = http.ListenAndServe(config.Server.Address, httpHandler)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

type Service interface {
	RegisterHandlers(mux *http.ServeMux)
}
