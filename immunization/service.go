// Package immunization queries the National Clinical Data Store for
// vaccination records by CHI number.
package immunization

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

	"github.com/ndp-scot/cdr-gateway/lib/api"
	"github.com/ndp-scot/cdr-gateway/lib/apperror"
	"github.com/ndp-scot/cdr-gateway/lib/fhirapi"
	"github.com/ndp-scot/cdr-gateway/lib/wrapper"
)

const ServiceName = "National Clinical Data Store (Vaccinations)"

type Service struct {
	wrapper.Base
	client *fhirapi.Client
}

// New resolves credentials (secrets override, then auth header) and connects
// to the NCDS FHIR API.
func New(ctx context.Context, config api.Config, secrets api.SecretsStore) (*Service, error) {
	config, err := api.Resolve(ctx, config, secrets)
	if err != nil {
		return nil, err
	}
	authHeader, err := api.AuthHeader(ctx, config)
	if err != nil {
		return nil, err
	}
	client := fhirapi.New(config.BaseURL, config.BasePath, authHeader, config.APIKey, "")
	log.Ctx(ctx).Info().Msgf("Using NCDS API at %s", client.URL("/"))
	return &Service{
		Base:   wrapper.Base{ServiceName: ServiceName},
		client: client,
	}, nil
}

// ImmunizationsByCHI searches Immunization records by patient identifier and
// maps each bundle entry. Entries that are not Immunization resources are
// skipped.
func (s *Service) ImmunizationsByCHI(ctx context.Context, chiNumber string) ([]Immunization, error) {
	var bundle fhir.Bundle
	err := s.client.Search(ctx, "Immunization", url.Values{"identifier": []string{chiNumber}}, &bundle)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, s.NotFound("Patient not found", map[string]string{"chiNumber": chiNumber})
		}
		return nil, s.Unhandled(ctx, err)
	}

	immunizations := []Immunization{}
	for _, entry := range bundle.Entry {
		var probe struct {
			ResourceType string `json:"resourceType"`
		}
		if err := json.Unmarshal(entry.Resource, &probe); err != nil || probe.ResourceType != "Immunization" {
			continue
		}
		resource, err := fhir.UnmarshalImmunization(entry.Resource)
		if err != nil {
			continue
		}
		immunizations = append(immunizations, mapImmunization(resource))
	}
	return immunizations, nil
}

func (s *Service) Ping(ctx context.Context) bool {
	return s.client.Ping(ctx)
}
