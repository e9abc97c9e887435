package event

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

const (
	EventCategoryCreated         = "CREATED"
	EventCategoryDeleted         = "DELETED"
	EventCategoryPropertyUpdated = "PROPERTY_UPDATED"

	SourceTypeWagonRecord = "WAGON_RECORD"
	SourceTypeCostSheet   = "COST_SHEET"
	SourceTypeFile        = "FILE"
)

type EventCategory string

type Event struct {
	SourceId   types.ID `json:"sourceId"`
	SourceType string   `json:"sourceType"`
	SourceDesc string   `json:"sourceDesc"`

	CreatorId   types.ID `json:"creatorId"`
	CreatorName string   `json:"creatorName"`

	EventCategory     EventCategory     `json:"eventCategory"`
	UpdatedProperties UpdatedProperties `json:"updatedProperties" sql:"type:TEXT"`
}

type EventRecord struct {
	Event

	Timestamp types.Timestamp `json:"timestamp" sql:"type:DATETIME(6)"`
	Synced    bool            `json:"synced"`
}

func (r *EventRecord) TableName() string {
	return "events"
}

type UpdatedProperty struct {
	PropertyName string `json:"propertyName"`
	PropertyDesc string `json:"propertyDesc"`

	OldValue     string `json:"oldValue"`
	OldValueDesc string `json:"oldValueDesc"`
	NewValue     string `json:"newValue"`
	NewValueDesc string `json:"newValueDesc"`
}

type UpdatedProperties []UpdatedProperty

func (t UpdatedProperties) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *UpdatedProperties) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), c)
}
