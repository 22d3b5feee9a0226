// Package demographics queries the NDP Demographics Service (EMPI) for
// patient records by CHI number.
package demographics

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

	"github.com/ndp-scot/cdr-gateway/lib/api"
	"github.com/ndp-scot/cdr-gateway/lib/apperror"
	"github.com/ndp-scot/cdr-gateway/lib/fhirapi"
	"github.com/ndp-scot/cdr-gateway/lib/wrapper"
)

const ServiceName = "NDP Demographics Service"

type Service struct {
	wrapper.Base
	client *fhirapi.Client
}

// New resolves credentials (secrets override, then auth header) and connects
// to the EMPI FHIR API.
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
	log.Ctx(ctx).Info().Msgf("Using EMPI API at %s", client.URL("/"))
	return &Service{
		Base:   wrapper.Base{ServiceName: ServiceName},
		client: client,
	}, nil
}

// PatientByCHI fetches a patient by CHI number and maps it to the flat
// patient entity. A 404 from the API becomes the not-found signal carrying
// the CHI number.
func (s *Service) PatientByCHI(ctx context.Context, chiNumber string) (*Patient, error) {
	var resource fhir.Patient
	if err := s.client.GetResourceById(ctx, "Patient", chiNumber, &resource); err != nil {
		if apperror.IsNotFound(err) {
			return nil, s.NotFound("Patient not found", map[string]string{"chiNumber": chiNumber})
		}
		return nil, s.Unhandled(ctx, err)
	}
	return mapPatient(resource), nil
}

func (s *Service) Ping(ctx context.Context) bool {
	return s.client.Ping(ctx)
}
