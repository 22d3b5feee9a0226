// Package devices queries the Medical Device Registry (MDDH) for implanted
// medical devices by CHI number.
package devices

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndp-scot/cdr-gateway/lib/api"
	"github.com/ndp-scot/cdr-gateway/lib/openehrapi"
	"github.com/ndp-scot/cdr-gateway/lib/wrapper"
)

const ServiceName = "Medical Device Registry"

type Service struct {
	wrapper.Base
	client *openehrapi.MDDHClient
}

// New resolves credentials (secrets override, then auth header) and connects
// to the MDDH API.
func New(ctx context.Context, config api.Config, secrets api.SecretsStore, serverNodeName string) (*Service, error) {
	config, err := api.Resolve(ctx, config, secrets)
	if err != nil {
		return nil, err
	}
	authHeader, err := api.AuthHeader(ctx, config)
	if err != nil {
		return nil, err
	}
	client := openehrapi.NewMDDH(config.BaseURL, config.BasePath, authHeader, config.APIKey, serverNodeName)
	log.Ctx(ctx).Info().Msgf("Using MDDH API at %s", client.URL("/"))
	return &Service{
		Base:   wrapper.Base{ServiceName: ServiceName},
		client: client,
	}, nil
}

// MedicalDevicesByCHI looks the patient's EHR up by CHI, lists its
// compositions and extracts the implanted devices from them. An unknown CHI
// (any non-200 EHR lookup) becomes the not-found signal.
func (s *Service) MedicalDevicesByCHI(ctx context.Context, chiNumber string) ([]MedicalDevice, error) {
	response, err := s.client.GetEHRBySubject(ctx, chiNumber, "", "", nil)
	if err != nil {
		return nil, s.Unhandled(ctx, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, s.NotFound("Patient not found", map[string]string{"chiNumber": chiNumber})
	}
	var ehr openehrapi.EHR
	if err := response.Decode(&ehr); err != nil {
		return nil, s.Unhandled(ctx, err)
	}
	if ehr.EHRID == nil {
		return nil, s.NotFound("Patient not found", map[string]string{"chiNumber": chiNumber})
	}

	listResponse, err := s.client.ListCompositionsForEHR(ctx, ehr.EHRID.Value, "", nil)
	if err != nil {
		return nil, s.Unhandled(ctx, err)
	}
	var searchResponse openehrapi.DeviceSearchResponse
	if err := listResponse.Decode(&searchResponse); err != nil {
		return nil, s.Unhandled(ctx, err)
	}
	return mapMedicalDevices(searchResponse), nil
}

func (s *Service) Ping(ctx context.Context) bool {
	return s.client.Ping(ctx)
}
