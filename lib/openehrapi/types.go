package openehrapi

// AQLQuery is the request body for POST /query/aql.
type AQLQuery struct {
	Query           string         `json:"q"`
	QueryParameters map[string]any `json:"query_parameters,omitempty"`
	Fetch           *int           `json:"fetch,omitempty"`
	Offset          *int           `json:"offset,omitempty"`
}

type AQLColumn struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type AQLResult struct {
	Query   string      `json:"q"`
	Columns []AQLColumn `json:"columns"`
	Rows    [][]any     `json:"rows"`
}

// EHR is the canonical openEHR EHR body; only the fields the gateway reads
// are modelled.
type EHR struct {
	EHRID *ObjectID `json:"ehr_id,omitempty"`
}

type ObjectID struct {
	Value string `json:"value"`
}

// DeviceSearchResponse is the MDDH composition listing: one device record per
// composition in the patient's EHR.
type DeviceSearchResponse struct {
	Count         int             `json:"count"`
	Meta          *ResultSetMeta  `json:"meta,omitempty"`
	DeviceRecords []*DeviceRecord `json:"deviceRecords"`
}

type ResultSetMeta struct {
	Fetch      int  `json:"fetch"`
	Offset     int  `json:"offset"`
	ResultSize *int `json:"resultsize,omitempty"`
}

type DeviceRecord struct {
	Meta        *DeviceRecordMeta  `json:"meta,omitempty"`
	Patient     *DeviceRecordOwner `json:"patient,omitempty"`
	Composition *Composition       `json:"composition,omitempty"`
}

type DeviceRecordMeta struct {
	CompositionUID     string `json:"compositionUid"`
	CompositionID      string `json:"compositionId"`
	CompositionVersion int    `json:"compositionVersion"`
}

type DeviceRecordOwner struct {
	PatientID string `json:"patientId"`
	CHI       string `json:"chi"`
}

// Composition models the canonical openEHR composition tree, restricted to
// the nodes the device mapping traverses. Every field is optional: upstream
// compositions vary per template version, and absent nodes must never break
// the traversal.
type Composition struct {
	ArchetypeNodeID string         `json:"archetype_node_id,omitempty"`
	Name            *Text          `json:"name,omitempty"`
	UID             *ObjectID      `json:"uid,omitempty"`
	Content         []*ContentItem `json:"content,omitempty"`
}

// ContentItem is a composition content entry (ACTION, OBSERVATION, ...).
type ContentItem struct {
	Name            *Text     `json:"name,omitempty"`
	ArchetypeNodeID string    `json:"archetype_node_id,omitempty"`
	Description     *ItemTree `json:"description,omitempty"`
	Protocol        *ItemTree `json:"protocol,omitempty"`
	Time            *Text     `json:"time,omitempty"`
}

type ItemTree struct {
	Items []*Item `json:"items,omitempty"`
}

// Item is a cluster or element; clusters carry Items, elements carry a Value.
type Item struct {
	Name  *Text   `json:"name,omitempty"`
	Items []*Item `json:"items,omitempty"`
	Value *Value  `json:"value,omitempty"`
}

// Value is a data value; which fields are set depends on the RM type
// (DV_TEXT carries Value, DV_CODED_TEXT additionally DefiningCode,
// DV_IDENTIFIER carries ID).
type Value struct {
	Value        string      `json:"value,omitempty"`
	DefiningCode *CodePhrase `json:"defining_code,omitempty"`
	ID           string      `json:"id,omitempty"`
}

type CodePhrase struct {
	CodeString string `json:"code_string,omitempty"`
}

type Text struct {
	Value string `json:"value,omitempty"`
}

// NamedValue returns the value of the first direct child item with the given
// name, or nil when no such item exists or it carries no value.
func NamedValue(items []*Item, name string) *Value {
	for _, item := range items {
		if item == nil || item.Name == nil || item.Name.Value != name {
			continue
		}
		return item.Value
	}
	return nil
}
