package demographics

import (
	"strings"

	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"

	"github.com/ndp-scot/cdr-gateway/lib/to"
)

// Patient is the flat demographics record served to query clients. The shape
// is contract-stable: every field is always present, with null or empty
// defaults when the upstream record omits it.
type Patient struct {
	ID                   *string      `json:"id"`
	CHINumber            *string      `json:"chiNumber"`
	Name                 Name         `json:"name"`
	BirthDate            *string      `json:"birthDate"`
	Gender               *string      `json:"gender"`
	ManagingOrganization Organization `json:"managingOrganization"`
	Address              []Address    `json:"address"`
	Deceased             bool         `json:"deceased"`
	GeneralPractitioner  Practitioner `json:"generalPractitioner"`
}

type Name struct {
	Family string   `json:"family"`
	Given  []string `json:"given"`
}

type Identifier struct {
	System *string `json:"system"`
	Value  *string `json:"value"`
}

type Organization struct {
	Identifier Identifier `json:"identifier"`
	Display    string     `json:"display"`
}

type Address struct {
	Use        string   `json:"use"`
	Text       string   `json:"text"`
	PostalCode string   `json:"postalCode"`
	Line       []string `json:"line"`
}

type Practitioner struct {
	Identifier Identifier `json:"identifier"`
	Display    *string    `json:"display"`
}

func mapPatient(resource fhir.Patient) *Patient {
	patient := &Patient{
		ID:        resource.Id,
		CHINumber: chiNumber(resource.Identifier),
		Name:      Name{Given: []string{}},
		BirthDate: resource.BirthDate,
		Address:   []Address{},
		Deceased:  to.Value(resource.DeceasedBoolean),
	}
	if resource.Gender != nil {
		patient.Gender = to.Ptr(resource.Gender.Code())
	}
	if len(resource.Name) > 0 {
		patient.Name.Family = to.Value(resource.Name[0].Family)
		if resource.Name[0].Given != nil {
			patient.Name.Given = resource.Name[0].Given
		}
	}
	if organization := resource.ManagingOrganization; organization != nil {
		if organization.Identifier != nil {
			patient.ManagingOrganization.Identifier = Identifier{
				System: organization.Identifier.System,
				Value:  organization.Identifier.Value,
			}
		}
		patient.ManagingOrganization.Display = to.Value(organization.Display)
	}
	for _, address := range resource.Address {
		mapped := Address{
			Text:       to.Value(address.Text),
			PostalCode: to.Value(address.PostalCode),
			Line:       []string{},
		}
		if address.Use != nil {
			mapped.Use = address.Use.Code()
		}
		if address.Line != nil {
			mapped.Line = address.Line
		}
		patient.Address = append(patient.Address, mapped)
	}
	if len(resource.GeneralPractitioner) > 0 {
		if identifier := resource.GeneralPractitioner[0].Identifier; identifier != nil {
			patient.GeneralPractitioner.Identifier = Identifier{
				System: identifier.System,
				Value:  identifier.Value,
			}
			patient.GeneralPractitioner.Display = identifier.Value
		}
	}
	return patient
}

// chiNumber picks the identifier issued under the CHI numbering system.
func chiNumber(identifiers []fhir.Identifier) *string {
	for _, identifier := range identifiers {
		if identifier.System != nil && strings.Contains(*identifier.System, "chinumber") {
			return identifier.Value
		}
	}
	return nil
}
