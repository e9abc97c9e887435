package wagon

import (
	"strings"
	"wagondepot/domain/status"
	"wagondepot/event"
	"wagondepot/idgen"
	"wagondepot/persistence"
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// WagonDeleteCleanupFuncs run inside the delete transaction, after the
// record is gone. Dependent components (file attachments) register here.
var WagonDeleteCleanupFuncs []func(wagonNumber string, tx *gorm.DB) error

var (
	wagonIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateWagonRecordFunc   = CreateWagonRecord
	QueryWagonRecordsFunc   = QueryWagonRecords
	DetailWagonRecordFunc   = DetailWagonRecord
	UpdateWagonRecordFunc   = UpdateWagonRecord
	DeleteWagonRecordFunc   = DeleteWagonRecord
	OverrideWagonStatusFunc = OverrideWagonStatus
)

func CreateWagonRecord(c *WagonRecordCreation, sec *session.Context) (*WagonRecord, error) {
	record := WagonRecord{
		ID:          idgen.NextID(wagonIdWorker),
		WagonNumber: c.WagonNumber,
		WagonType:   c.WagonType,
		Customer:    c.Customer,
		Contract:    c.Contract,
		RepairType:  c.RepairType,
		WorkName:    c.WorkName,
		Executor:    c.Executor,
		Comment:     "",

		RepairStart: c.RepairStart,
		RepairEnd:   c.RepairEnd,

		WorkGroups:    c.WorkGroups,
		GroupStatuses: status.Initialize(c.WorkGroups),
		Status:        status.WagonStatusNotStarted,

		CreateTime: types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeWagonRecord, record.ID, record.WagonNumber,
			event.EventCategoryCreated,
			[]event.UpdatedProperty{{
				PropertyName: "WorkGroups", PropertyDesc: "Work groups",
				NewValue: strings.Join(record.WorkGroups, ", "), NewValueDesc: strings.Join(record.WorkGroups, ", "),
			}},
			&sec.Identity, record.CreateTime, tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &record, nil
}

func QueryWagonRecords() ([]WagonRecord, error) {
	records := []WagonRecord{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func DetailWagonRecord(id types.ID) (*WagonRecord, error) {
	record := WagonRecord{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&WagonRecord{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateWagonRecord patches the group status vector (sparse, value-keyed),
// recomputes the aggregate status unconditionally and applies the scalar
// fields verbatim. The row is locked for the read-modify-write so racing
// updates to the same record serialize instead of losing the later vector.
func UpdateWagonRecord(id types.ID, u *WagonRecordUpdating, sec *session.Context) (*WagonRecord, error) {
	if err := status.Validate(u.WorkGroupStatus); err != nil {
		return nil, err
	}

	var record WagonRecord
	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&WagonRecord{ID: id}).First(&record).Error; err != nil {
			return err
		}

		oldStatus := record.Status

		record.GroupStatuses = status.ApplyPatch(record.GroupStatuses, u.WorkGroupStatus)
		record.Status = status.Derive(record.GroupStatuses)

		record.WagonNumber = u.WagonNumber
		record.WagonType = u.WagonType
		record.Customer = u.Customer
		record.Contract = u.Contract
		record.RepairType = u.RepairType
		record.WorkName = u.WorkName
		record.Executor = u.Executor
		record.Comment = u.Comment
		record.RepairStart = u.RepairStart
		record.RepairEnd = u.RepairEnd

		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeWagonRecord, record.ID, record.WagonNumber,
			event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "Status", PropertyDesc: "Status",
				OldValue: string(oldStatus), OldValueDesc: string(oldStatus),
				NewValue: string(record.Status), NewValueDesc: string(record.Status),
			}},
			&sec.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &record, nil
}

// OverrideWagonStatus sets the aggregate status directly, leaving the group
// status vector untouched. Manual correction only: the next update through
// the patch path recomputes the status from the vector again.
func OverrideWagonStatus(id types.ID, o *StatusOverriding, sec *session.Context) (*WagonRecord, error) {
	var record WagonRecord
	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&WagonRecord{ID: id}).First(&record).Error; err != nil {
			return err
		}

		oldStatus := record.Status
		record.Status = o.Status
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeWagonRecord, record.ID, record.WagonNumber,
			event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "Status", PropertyDesc: "Status (manual override)",
				OldValue: string(oldStatus), OldValueDesc: string(oldStatus),
				NewValue: string(record.Status), NewValueDesc: string(record.Status),
			}},
			&sec.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &record, nil
}

func DeleteWagonRecord(id types.ID, sec *session.Context) (*WagonRecord, error) {
	var record WagonRecord
	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&WagonRecord{ID: id}).First(&record).Error; err != nil {
			return err
		}
		if err := tx.Delete(WagonRecord{}, "id = ?", id).Error; err != nil {
			return err
		}

		for _, f := range WagonDeleteCleanupFuncs {
			if err := f(record.WagonNumber, tx); err != nil {
				return err
			}
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeWagonRecord, record.ID, record.WagonNumber,
			event.EventCategoryDeleted, nil, &sec.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &record, nil
}
