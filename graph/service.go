// Package graph exposes the unified query surface over the upstream service
// wrappers: one GET endpoint per query, returning GraphQL-style
// data/errors envelopes.
package graph

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndp-scot/cdr-gateway/demographics"
	"github.com/ndp-scot/cdr-gateway/dermatology"
	"github.com/ndp-scot/cdr-gateway/devices"
	"github.com/ndp-scot/cdr-gateway/immunization"
	"github.com/ndp-scot/cdr-gateway/lib/httpserv"
)

type DemographicsService interface {
	PatientByCHI(ctx context.Context, chiNumber string) (*demographics.Patient, error)
}

type DevicesService interface {
	MedicalDevicesByCHI(ctx context.Context, chiNumber string) ([]devices.MedicalDevice, error)
}

type DermatologyService interface {
	EncountersByCHI(ctx context.Context, chiNumber string) ([]dermatology.Encounter, error)
	DocumentReferencesByCHI(ctx context.Context, chiNumber string) ([]dermatology.DocumentReference, error)
}

type ImmunizationService interface {
	ImmunizationsByCHI(ctx context.Context, chiNumber string) ([]immunization.Immunization, error)
}

type Service struct {
	demographics DemographicsService
	devices      DevicesService
	dermatology  DermatologyService
	immunization ImmunizationService
}

func New(demographicsService DemographicsService, devicesService DevicesService, dermatologyService DermatologyService, immunizationService ImmunizationService) *Service {
	return &Service{
		demographics: demographicsService,
		devices:      devicesService,
		dermatology:  dermatologyService,
		immunization: immunizationService,
	}
}

func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	httpserv.RegisterRoutes(mux,
		httpserv.Route{
			Method:     http.MethodGet,
			Path:       "/query/getPatientByCHI",
			Middleware: httpserv.RequestLogger,
			Handler: s.resolve("getPatientByCHI", func(ctx context.Context, chiNumber string) (any, error) {
				return s.demographics.PatientByCHI(ctx, chiNumber)
			}),
		},
		httpserv.Route{
			Method:     http.MethodGet,
			Path:       "/query/getMedicalDevicesByPatient",
			Middleware: httpserv.RequestLogger,
			Handler: s.resolve("getMedicalDevicesByPatient", func(ctx context.Context, chiNumber string) (any, error) {
				return s.devices.MedicalDevicesByCHI(ctx, chiNumber)
			}),
		},
		httpserv.Route{
			Method:     http.MethodGet,
			Path:       "/query/getDermatologyEncountersByChi",
			Middleware: httpserv.RequestLogger,
			Handler: s.resolve("getDermatologyEncountersByChi", func(ctx context.Context, chiNumber string) (any, error) {
				// a nil slice serializes as null: no encounters is not an error
				return s.dermatology.EncountersByCHI(ctx, chiNumber)
			}),
		},
		httpserv.Route{
			Method:     http.MethodGet,
			Path:       "/query/getDermatologyDocumentReferencesByChi",
			Middleware: httpserv.RequestLogger,
			Handler: s.resolve("getDermatologyDocumentReferencesByChi", func(ctx context.Context, chiNumber string) (any, error) {
				return s.dermatology.DocumentReferencesByCHI(ctx, chiNumber)
			}),
		},
		httpserv.Route{
			Method:     http.MethodGet,
			Path:       "/query/getImmunizationsByChi",
			Middleware: httpserv.RequestLogger,
			Handler: s.resolve("getImmunizationsByChi", func(ctx context.Context, chiNumber string) (any, error) {
				return s.immunization.ImmunizationsByCHI(ctx, chiNumber)
			}),
		},
	)
}

type resolverFunc func(ctx context.Context, chiNumber string) (any, error)

// resolve adapts a wrapper call to the HTTP surface. Failures are reported
// in the errors envelope with HTTP 200, the way a GraphQL server would.
func (s *Service) resolve(queryName string, resolver resolverFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		chiNumber := request.URL.Query().Get("chiNumber")
		if chiNumber == "" {
			writeErrors(writer, QueryError{
				Message:    "chiNumber is required",
				Extensions: Extensions{Code: "BAD_USER_INPUT"},
			})
			return
		}
		result, err := resolver(request.Context(), chiNumber)
		if err != nil {
			writeErrors(writer, FormatError(err))
			return
		}
		writeData(writer, queryName, result)
	}
}

func writeData(writer http.ResponseWriter, queryName string, result any) {
	writer.Header().Set("Content-Type", "application/json")
	body := map[string]any{"data": map[string]any{queryName: result}}
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write query response")
	}
}

func writeErrors(writer http.ResponseWriter, queryErrors ...QueryError) {
	writer.Header().Set("Content-Type", "application/json")
	body := map[string]any{"errors": queryErrors}
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write query response")
	}
}
