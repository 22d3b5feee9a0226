package immunization

import (
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

	"github.com/ndp-scot/cdr-gateway/lib/to"
)

// Immunization is one vaccination event from the National Clinical Data
// Store, flattened to the query contract.
type Immunization struct {
	ID                 *string           `json:"id"`
	Identifier         []Identifier      `json:"identifier"`
	Status             string            `json:"status"`
	StatusReason       *CodeableConcept  `json:"statusReason"`
	VaccineCode        CodeableConcept   `json:"vaccineCode"`
	Patient            Reference         `json:"patient"`
	OccurrenceDateTime *string           `json:"occurrenceDateTime"`
	Recorded           *string           `json:"recorded"`
	PrimarySource      *bool             `json:"primarySource"`
	Location           *Reference        `json:"location"`
	Manufacturer       *Reference        `json:"manufacturer"`
	LotNumber          *string           `json:"lotNumber"`
	Site               *CodeableConcept  `json:"site"`
	Route              *CodeableConcept  `json:"route"`
	Performer          []Performer       `json:"performer"`
	ReasonCode         []CodeableConcept `json:"reasonCode"`
	ProtocolApplied    []ProtocolApplied `json:"protocolApplied"`
}

type Identifier struct {
	System *string `json:"system"`
	Value  *string `json:"value"`
}

type CodeableConcept struct {
	Text   *string  `json:"text"`
	Coding []Coding `json:"coding"`
}

type Coding struct {
	System  *string `json:"system"`
	Code    *string `json:"code"`
	Display *string `json:"display"`
}

type Reference struct {
	Reference *string `json:"reference"`
}

type Performer struct {
	Actor Reference `json:"actor"`
}

type ProtocolApplied struct {
	TargetDisease         []CodeableConcept `json:"targetDisease"`
	DoseNumberPositiveInt *int              `json:"doseNumberPositiveInt"`
	SeriesDosePositiveInt *int              `json:"seriesDosePositiveInt"`
}

func mapImmunization(resource fhir.Immunization) Immunization {
	immunization := Immunization{
		ID:                 resource.Id,
		Identifier:         mapIdentifiers(resource.Identifier),
		Status:             resource.Status.Code(),
		VaccineCode:        mapCodeableConcept(resource.VaccineCode),
		Patient:            Reference{Reference: resource.Patient.Reference},
		OccurrenceDateTime: resource.OccurrenceDateTime,
		Recorded:           resource.Recorded,
		PrimarySource:      resource.PrimarySource,
		LotNumber:          resource.LotNumber,
		Performer:          []Performer{},
		ReasonCode:         []CodeableConcept{},
		ProtocolApplied:    []ProtocolApplied{},
	}
	if resource.StatusReason != nil {
		immunization.StatusReason = to.Ptr(mapCodeableConcept(*resource.StatusReason))
	}
	if resource.Location != nil {
		immunization.Location = &Reference{Reference: resource.Location.Reference}
	}
	if resource.Manufacturer != nil {
		immunization.Manufacturer = &Reference{Reference: resource.Manufacturer.Reference}
	}
	if resource.Site != nil {
		immunization.Site = to.Ptr(mapCodeableConcept(*resource.Site))
	}
	if resource.Route != nil {
		immunization.Route = to.Ptr(mapCodeableConcept(*resource.Route))
	}
	for _, performer := range resource.Performer {
		immunization.Performer = append(immunization.Performer, Performer{
			Actor: Reference{Reference: performer.Actor.Reference},
		})
	}
	for _, reason := range resource.ReasonCode {
		immunization.ReasonCode = append(immunization.ReasonCode, mapCodeableConcept(reason))
	}
	for _, protocol := range resource.ProtocolApplied {
		mapped := ProtocolApplied{
			TargetDisease:         mapCodeableConcepts(protocol.TargetDisease),
			DoseNumberPositiveInt: protocol.DoseNumberPositiveInt,
			SeriesDosePositiveInt: protocol.SeriesDosesPositiveInt,
		}
		immunization.ProtocolApplied = append(immunization.ProtocolApplied, mapped)
	}
	return immunization
}

func mapIdentifiers(identifiers []fhir.Identifier) []Identifier {
	mapped := []Identifier{}
	for _, identifier := range identifiers {
		mapped = append(mapped, Identifier{System: identifier.System, Value: identifier.Value})
	}
	return mapped
}

func mapCodeableConcepts(concepts []fhir.CodeableConcept) []CodeableConcept {
	mapped := []CodeableConcept{}
	for _, concept := range concepts {
		mapped = append(mapped, mapCodeableConcept(concept))
	}
	return mapped
}

func mapCodeableConcept(concept fhir.CodeableConcept) CodeableConcept {
	mapped := CodeableConcept{Text: concept.Text, Coding: []Coding{}}
	for _, coding := range concept.Coding {
		mapped.Coding = append(mapped.Coding, Coding{
			System:  coding.System,
			Code:    coding.Code,
			Display: coding.Display,
		})
	}
	return mapped
}
