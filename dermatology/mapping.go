package dermatology

import (
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// Encounter is one dermatology encounter, flattened to the query contract.
type Encounter struct {
	ID              *string           `json:"id"`
	Identifier      []Identifier      `json:"identifier"`
	Status          *string           `json:"status"`
	Type            []CodeableConcept `json:"type"`
	Subject         Reference         `json:"subject"`
	ServiceProvider *Organization     `json:"serviceProvider"`
	Participant     []Participant     `json:"participant"`
	ActualPeriod    *Period           `json:"actualPeriod"`
	Reason          []Reason          `json:"reason"`
}

// DocumentReference is one referral document, with its author resolved to
// the included practitioner.
type DocumentReference struct {
	ID         *string           `json:"id"`
	Identifier []Identifier      `json:"identifier"`
	Status     *string           `json:"status"`
	DocStatus  *string           `json:"docStatus"`
	Type       CodeableConcept   `json:"type"`
	Category   []CodeableConcept `json:"category"`
	Subject    Reference         `json:"subject"`
	Context    []Reference       `json:"context"`
	Date       *string           `json:"date"`
	Author     *Practitioner     `json:"author"`
	Content    []Content         `json:"content"`
}

type Identifier struct {
	System *string `json:"system"`
	Value  *string `json:"value"`
}

type CodeableConcept struct {
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

type Period struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type Participant struct {
	Actor Reference `json:"actor"`
}

type Reason struct {
	Concept CodeableConcept `json:"concept"`
}

type Practitioner struct {
	ID         *string        `json:"id"`
	Identifier []Identifier   `json:"identifier"`
	Name       []HumanName    `json:"name"`
	Telecom    []ContactPoint `json:"telecom"`
}

type HumanName struct {
	Text *string `json:"text"`
}

type ContactPoint struct {
	System *string `json:"system"`
	Value  *string `json:"value"`
}

type Organization struct {
	ID         *string      `json:"id"`
	Identifier []Identifier `json:"identifier"`
	Name       *string      `json:"name"`
}

type Content struct {
	Attachment Attachment `json:"attachment"`
	Profile    []Profile  `json:"profile"`
}

type Attachment struct {
	ID          *string `json:"id"`
	ContentType *string `json:"contentType"`
	URL         *string `json:"url"`
}

type Profile struct {
	ValueCoding Coding `json:"valueCoding"`
}

func mapEncounter(resource r5Encounter, organization *Organization) Encounter {
	encounter := Encounter{
		ID:              resource.Id,
		Identifier:      mapIdentifiers(resource.Identifier),
		Status:          resource.Status,
		Type:            []CodeableConcept{},
		ServiceProvider: organization,
		Participant:     []Participant{},
		Reason:          []Reason{},
	}
	for _, concept := range resource.Type {
		encounter.Type = append(encounter.Type, mapCodeableConcept(&concept))
	}
	if resource.Subject != nil {
		encounter.Subject.Reference = resource.Subject.Reference
	}
	for _, participant := range resource.Participant {
		mapped := Participant{}
		if participant.Actor != nil {
			mapped.Actor.Reference = participant.Actor.Reference
		}
		encounter.Participant = append(encounter.Participant, mapped)
	}
	if resource.ActualPeriod != nil {
		encounter.ActualPeriod = &Period{Start: resource.ActualPeriod.Start, End: resource.ActualPeriod.End}
	}
	for _, reason := range resource.Reason {
		for _, value := range reason.Value {
			encounter.Reason = append(encounter.Reason, Reason{Concept: mapCodeableConcept(value.Concept)})
		}
	}
	return encounter
}

func mapDocumentReference(resource r5DocumentReference, practitioners map[string]Practitioner) DocumentReference {
	document := DocumentReference{
		ID:         resource.Id,
		Identifier: mapIdentifiers(resource.Identifier),
		Status:     resource.Status,
		DocStatus:  resource.DocStatus,
		Type:       mapCodeableConcept(resource.Type),
		Category:   []CodeableConcept{},
		Context:    []Reference{},
		Date:       resource.Date,
		Content:    []Content{},
	}
	for _, category := range resource.Category {
		document.Category = append(document.Category, mapCodeableConcept(&category))
	}
	if resource.Subject != nil {
		document.Subject.Reference = resource.Subject.Reference
	}
	for _, context := range resource.Context {
		document.Context = append(document.Context, Reference{Reference: context.Reference})
	}
	if len(resource.Author) > 0 && resource.Author[0].Reference != nil {
		if practitioner, ok := practitioners[*resource.Author[0].Reference]; ok {
			document.Author = &practitioner
		}
	}
	for _, content := range resource.Content {
		mapped := Content{
			Attachment: Attachment{
				ID:          content.Attachment.Id,
				ContentType: content.Attachment.ContentType,
				URL:         content.Attachment.Url,
			},
			Profile: []Profile{},
		}
		for _, profile := range content.Profile {
			coding := Coding{}
			if profile.ValueCoding != nil {
				coding.System = profile.ValueCoding.System
				coding.Code = profile.ValueCoding.Code
			}
			mapped.Profile = append(mapped.Profile, Profile{ValueCoding: coding})
		}
		document.Content = append(document.Content, mapped)
	}
	return document
}

// organizationFromBundle maps the first included Organization resource.
func organizationFromBundle(bundle fhir.Bundle) *Organization {
	for _, entry := range bundle.Entry {
		var resource r5Organization
		if !decodeResource(entry.Resource, "Organization", &resource) {
			continue
		}
		return &Organization{
			ID:         resource.Id,
			Identifier: mapIdentifiers(resource.Identifier),
			Name:       resource.Name,
		}
	}
	return nil
}

// practitionersFromBundle indexes the included Practitioner resources by
// their bundle fullUrl, the form document author references use.
func practitionersFromBundle(bundle fhir.Bundle) map[string]Practitioner {
	practitioners := map[string]Practitioner{}
	for _, entry := range bundle.Entry {
		if entry.FullUrl == nil {
			continue
		}
		var resource r5Practitioner
		if !decodeResource(entry.Resource, "Practitioner", &resource) {
			continue
		}
		practitioners[*entry.FullUrl] = mapPractitioner(resource)
	}
	return practitioners
}

func mapPractitioner(resource r5Practitioner) Practitioner {
	practitioner := Practitioner{
		ID:         resource.Id,
		Identifier: mapIdentifiers(resource.Identifier),
		Name:       []HumanName{},
		Telecom:    []ContactPoint{},
	}
	for _, name := range resource.Name {
		practitioner.Name = append(practitioner.Name, HumanName{Text: name.Text})
	}
	for _, telecom := range resource.Telecom {
		practitioner.Telecom = append(practitioner.Telecom, ContactPoint{System: telecom.System, Value: telecom.Value})
	}
	return practitioner
}

func mapIdentifiers(identifiers []r5Identifier) []Identifier {
	mapped := []Identifier{}
	for _, identifier := range identifiers {
		mapped = append(mapped, Identifier{System: identifier.System, Value: identifier.Value})
	}
	return mapped
}

func mapCodeableConcept(concept *r5CodeableConcept) CodeableConcept {
	mapped := CodeableConcept{Coding: []Coding{}}
	if concept == nil {
		return mapped
	}
	for _, coding := range concept.Coding {
		mapped.Coding = append(mapped.Coding, Coding{
			System:  coding.System,
			Code:    coding.Code,
			Display: coding.Display,
		})
	}
	return mapped
}
