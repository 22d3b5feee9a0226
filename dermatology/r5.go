package dermatology

// Wire shapes for the FHIR R5 payloads the store serves, restricted to the
// elements the gateway maps. R5 moved Encounter.period to actualPeriod and
// made reason/content carry nested value/profile lists, so the R4 models
// cannot decode these.

type r5Identifier struct {
	System *string `json:"system"`
	Value  *string `json:"value"`
}

type r5Coding struct {
	System  *string `json:"system"`
	Code    *string `json:"code"`
	Display *string `json:"display"`
}

type r5CodeableConcept struct {
	Text   *string    `json:"text"`
	Coding []r5Coding `json:"coding"`
}

type r5Reference struct {
	Reference *string `json:"reference"`
}

type r5Period struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type r5Encounter struct {
	Id           *string             `json:"id"`
	Identifier   []r5Identifier      `json:"identifier"`
	Status       *string             `json:"status"`
	Type         []r5CodeableConcept `json:"type"`
	Subject      *r5Reference        `json:"subject"`
	Participant  []r5Participant     `json:"participant"`
	ActualPeriod *r5Period           `json:"actualPeriod"`
	Reason       []r5EncounterReason `json:"reason"`
}

type r5Participant struct {
	Actor *r5Reference `json:"actor"`
}

type r5EncounterReason struct {
	Value []r5ReasonValue `json:"value"`
}

type r5ReasonValue struct {
	Concept *r5CodeableConcept `json:"concept"`
}

type r5Practitioner struct {
	Id         *string          `json:"id"`
	Identifier []r5Identifier   `json:"identifier"`
	Name       []r5HumanName    `json:"name"`
	Telecom    []r5ContactPoint `json:"telecom"`
}

type r5HumanName struct {
	Text *string `json:"text"`
}

type r5ContactPoint struct {
	System *string `json:"system"`
	Value  *string `json:"value"`
}

type r5Organization struct {
	Id         *string        `json:"id"`
	Identifier []r5Identifier `json:"identifier"`
	Name       *string        `json:"name"`
}

type r5DocumentReference struct {
	Id         *string             `json:"id"`
	Identifier []r5Identifier      `json:"identifier"`
	Status     *string             `json:"status"`
	DocStatus  *string             `json:"docStatus"`
	Type       *r5CodeableConcept  `json:"type"`
	Category   []r5CodeableConcept `json:"category"`
	Subject    *r5Reference        `json:"subject"`
	Context    []r5Reference       `json:"context"`
	Date       *string             `json:"date"`
	Author     []r5Reference       `json:"author"`
	Content    []r5Content         `json:"content"`
}

type r5Content struct {
	Attachment r5Attachment       `json:"attachment"`
	Profile    []r5ContentProfile `json:"profile"`
}

type r5Attachment struct {
	Id          *string `json:"id"`
	ContentType *string `json:"contentType"`
	Url         *string `json:"url"`
}

type r5ContentProfile struct {
	ValueCoding *r5Coding `json:"valueCoding"`
}
