package devices

import (
	"github.com/ndp-scot/cdr-gateway/lib/openehrapi"
)

// MedicalDevice is one implanted device extracted from a procedure entry in
// an MDDH composition. Every field is independently optional: the mapping is
// total and missing composition nodes yield nulls, never an error.
type MedicalDevice struct {
	DeviceSerialNum    *string   `json:"deviceSerialNum"`
	ProductDescription *string   `json:"productDescription"`
	LotOrBatchNum      *string   `json:"lotOrBatchNum"`
	MDDClass           *string   `json:"mddClass"`
	Procedure          Procedure `json:"procedure"`
	Operation          Operation `json:"operation"`
}

type Procedure struct {
	ID          *string `json:"id"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

type Operation struct {
	ID         *string `json:"id"`
	Identifier *string `json:"identifier"`
	DateTime   *string `json:"dateTime"`
}

// Composition node names the device mapping traverses.
const (
	entryProcedure     = "Procedure"
	entryOperation     = "Operation"
	itemDeviceDetails  = "Device Details"
	itemProductDesc    = "Product description"
	itemSerialNumber   = "Device Serial number"
	itemLotOrBatch     = "Device Lot or Batch number"
	itemClass          = "Class"
	itemProcedureName  = "Procedure name"
	itemOperationIdent = "Operation identifier"
)

// mapMedicalDevices walks every composition in the search response: each
// "Device Details" cluster under a "Procedure" entry yields one device,
// annotated with its procedure and the composition's "Operation" entry.
func mapMedicalDevices(searchResponse openehrapi.DeviceSearchResponse) []MedicalDevice {
	devices := []MedicalDevice{}
	for _, record := range searchResponse.DeviceRecords {
		if record == nil || record.Composition == nil {
			continue
		}
		composition := record.Composition
		operation := mapOperation(composition)
		for _, entry := range composition.Content {
			if entry == nil || entry.Name == nil || entry.Name.Value != entryProcedure {
				continue
			}
			procedure := mapProcedure(entry)
			for _, cluster := range descriptionItems(entry) {
				if cluster == nil || cluster.Name == nil || cluster.Name.Value != itemDeviceDetails {
					continue
				}
				devices = append(devices, MedicalDevice{
					DeviceSerialNum:    textValue(cluster.Items, itemSerialNumber),
					ProductDescription: textValue(cluster.Items, itemProductDesc),
					LotOrBatchNum:      textValue(cluster.Items, itemLotOrBatch),
					MDDClass:           textValue(cluster.Items, itemClass),
					Procedure:          procedure,
					Operation:          operation,
				})
			}
		}
	}
	return devices
}

func mapProcedure(entry *openehrapi.ContentItem) Procedure {
	procedure := Procedure{}
	if entry.ArchetypeNodeID != "" {
		id := entry.ArchetypeNodeID
		procedure.ID = &id
	}
	if entry.Description == nil {
		return procedure
	}
	if value := openehrapi.NamedValue(entry.Description.Items, itemProcedureName); value != nil {
		if value.DefiningCode != nil && value.DefiningCode.CodeString != "" {
			code := value.DefiningCode.CodeString
			procedure.Code = &code
		}
		if value.Value != "" {
			description := value.Value
			procedure.Description = &description
		}
	}
	return procedure
}

// mapOperation reads the composition's "Operation" entry: the operation
// identifier from its protocol items, the date from its time node. The
// operation ID is the composition's own archetype node.
func mapOperation(composition *openehrapi.Composition) Operation {
	operation := Operation{}
	if composition.ArchetypeNodeID != "" {
		id := composition.ArchetypeNodeID
		operation.ID = &id
	}
	for _, entry := range composition.Content {
		if entry == nil || entry.Name == nil || entry.Name.Value != entryOperation {
			continue
		}
		if entry.Protocol != nil {
			if value := openehrapi.NamedValue(entry.Protocol.Items, itemOperationIdent); value != nil && value.ID != "" {
				identifier := value.ID
				operation.Identifier = &identifier
			}
		}
		if entry.Time != nil && entry.Time.Value != "" {
			dateTime := entry.Time.Value
			operation.DateTime = &dateTime
		}
		break
	}
	return operation
}

func descriptionItems(entry *openehrapi.ContentItem) []*openehrapi.Item {
	if entry.Description == nil {
		return nil
	}
	return entry.Description.Items
}

func textValue(items []*openehrapi.Item, name string) *string {
	value := openehrapi.NamedValue(items, name)
	if value == nil || value.Value == "" {
		return nil
	}
	text := value.Value
	return &text
}
