package wagon

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"wagondepot/domain/status"

	"github.com/fundwit/go-commons/types"
)

// WorkGroups is the ordered list of declared work-group names of a record.
// It is set once at creation and is authoritative for which group statuses
// may exist.
type WorkGroups []string

type WagonRecord struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	WagonNumber string `json:"wagonNumber" gorm:"unique_index:uni_wagon_number"`
	WagonType   string `json:"wagonType"`
	Customer    string `json:"customer"`
	Contract    string `json:"contract"`
	RepairType  string `json:"repairType"`
	WorkName    string `json:"workName"`
	Executor    string `json:"executor"`
	Comment     string `json:"comment" sql:"type:TEXT"`

	RepairStart types.Timestamp `json:"repairStart" sql:"type:DATETIME(6)"`
	RepairEnd   types.Timestamp `json:"repairEnd" sql:"type:DATETIME(6)"`

	WorkGroups    WorkGroups           `json:"workGroups" sql:"type:TEXT"`
	GroupStatuses status.GroupStatuses `json:"workGroupStatus" sql:"type:TEXT"`

	Status status.WagonStatus `json:"status"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *WagonRecord) TableName() string {
	return "wagon_records"
}

type WagonRecordCreation struct {
	WagonNumber string `json:"wagonNumber" binding:"required,lte=255"`
	WagonType   string `json:"wagonType" binding:"lte=255"`
	Customer    string `json:"customer" binding:"lte=255"`
	Contract    string `json:"contract" binding:"lte=255"`
	RepairType  string `json:"repairType" binding:"lte=255"`
	WorkName    string `json:"workName" binding:"lte=255"`
	Executor    string `json:"executor" binding:"lte=255"`

	RepairStart types.Timestamp `json:"repairStart"`
	RepairEnd   types.Timestamp `json:"repairEnd"`

	WorkGroups []string `json:"workGroups"`
}

// WagonRecordUpdating carries the full scalar surface of a record, applied
// verbatim, plus an optional sparse status patch. Work-group membership is
// not updatable.
type WagonRecordUpdating struct {
	WagonNumber string `json:"wagonNumber" binding:"required,lte=255"`
	WagonType   string `json:"wagonType" binding:"lte=255"`
	Customer    string `json:"customer" binding:"lte=255"`
	Contract    string `json:"contract" binding:"lte=255"`
	RepairType  string `json:"repairType" binding:"lte=255"`
	WorkName    string `json:"workName" binding:"lte=255"`
	Executor    string `json:"executor" binding:"lte=255"`
	Comment     string `json:"comment"`

	RepairStart types.Timestamp `json:"repairStart"`
	RepairEnd   types.Timestamp `json:"repairEnd"`

	WorkGroupStatus status.GroupStatuses `json:"workGroupStatus"`
}

// StatusOverriding is the explicit manual-correction path. It bypasses the
// derivation rule, so it lives on its own operation instead of the update.
type StatusOverriding struct {
	Status status.WagonStatus `json:"status" binding:"required,oneof=NOT_STARTED IN_PROGRESS DONE"`
}

func (t WorkGroups) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *WorkGroups) Scan(v interface{}) error {
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
