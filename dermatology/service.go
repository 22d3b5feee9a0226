// Package dermatology queries the Digital Dermatology Store for encounters
// and referral documents by CHI number. The store serves FHIR R5 payloads;
// the R5-specific shapes are modelled locally.
package dermatology

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

const ServiceName = "Digital Dermatology Store"

type Service struct {
	wrapper.Base
	client *fhirapi.Client
}

// New resolves credentials (secrets override, then auth header) and connects
// to the Digital Dermatology FHIR API.
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
	log.Ctx(ctx).Info().Msgf("Using DDerm API at %s", client.URL("/"))
	return &Service{
		Base:   wrapper.Base{ServiceName: ServiceName},
		client: client,
	}, nil
}

// EncountersByCHI searches dermatology encounters for the patient, including
// the treating practitioner and service-provider organization. A patient
// with no encounters yields nil, which is not the not-found signal.
func (s *Service) EncountersByCHI(ctx context.Context, chiNumber string) ([]Encounter, error) {
	var bundle fhir.Bundle
	err := s.client.Search(ctx, "Encounter", url.Values{
		"patient.identifier": []string{chiNumber},
		"_include":           []string{"Encounter:participant:Practitioner,Encounter:service-provider:Organization"},
	}, &bundle)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, s.NotFound("Patient not found", map[string]string{"chiNumber": chiNumber})
		}
		return nil, s.Unhandled(ctx, err)
	}

	var encounters []Encounter
	organization := organizationFromBundle(bundle)
	for _, entry := range bundle.Entry {
		var resource r5Encounter
		if !decodeResource(entry.Resource, "Encounter", &resource) {
			continue
		}
		encounters = append(encounters, mapEncounter(resource, organization))
	}
	return encounters, nil
}

// DocumentReferencesByCHI searches referral documents for the patient,
// resolving each document's author against the included Practitioner
// resources by bundle fullUrl.
func (s *Service) DocumentReferencesByCHI(ctx context.Context, chiNumber string) ([]DocumentReference, error) {
	var bundle fhir.Bundle
	err := s.client.Search(ctx, "DocumentReference", url.Values{
		"patient.identifier": []string{chiNumber},
		"_include":           []string{"DocumentReference:author:Practitioner"},
	}, &bundle)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, s.NotFound("Patient not found", map[string]string{"chiNumber": chiNumber})
		}
		return nil, s.Unhandled(ctx, err)
	}

	var documents []DocumentReference
	practitioners := practitionersFromBundle(bundle)
	for _, entry := range bundle.Entry {
		var resource r5DocumentReference
		if !decodeResource(entry.Resource, "DocumentReference", &resource) {
			continue
		}
		documents = append(documents, mapDocumentReference(resource, practitioners))
	}
	return documents, nil
}

func (s *Service) Ping(ctx context.Context) bool {
	return s.client.Ping(ctx)
}

// decodeResource unmarshals a bundle entry when its resourceType matches.
func decodeResource(raw json.RawMessage, resourceType string, target any) bool {
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.ResourceType != resourceType {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
