package attachment

import (
	"errors"
	"io"
	"wagondepot/domain/wagon"
	"wagondepot/event"
	"wagondepot/idgen"
	"wagondepot/persistence"
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

type FileRecord struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	// server-generated, collision-resistant
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`

	// reference to a wagon record, not ownership
	WagonNumber string `json:"wagonNumber" gorm:"index:idx_wagon_number"`

	UploadDate types.Timestamp `json:"uploadDate" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *FileRecord) TableName() string {
	return "file_records"
}

var (
	fileIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	SaveAttachmentFunc   = SaveAttachment
	LatestAttachmentFunc = LatestAttachment
	AttachmentExistsFunc = AttachmentExists
	DeleteAttachmentFunc = DeleteAttachment
)

// SaveAttachment stores the payload under a generated filename and records it
// against the wagon. The wagon must exist.
func SaveAttachment(wagonNumber, originalName string, r io.Reader, sec *session.Context) (*FileRecord, error) {
	record := FileRecord{
		ID:           idgen.NextID(fileIdWorker),
		Filename:     uuid.New().String() + "-" + originalName,
		OriginalName: originalName,
		WagonNumber:  wagonNumber,
		UploadDate:   types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		w := wagon.WagonRecord{}
		if err := tx.Where(&wagon.WagonRecord{WagonNumber: wagonNumber}).First(&w).Error; err != nil {
			return err
		}

		if err := ActiveBlobStore.Put(record.Filename, r); err != nil {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeFile, record.ID, record.Filename,
			event.EventCategoryCreated,
			[]event.UpdatedProperty{{
				PropertyName: "WagonNumber", PropertyDesc: "Wagon number",
				NewValue: wagonNumber, NewValueDesc: wagonNumber,
			}},
			&sec.Identity, record.UploadDate, tx)
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

// LatestAttachment returns the most recent attachment of the wagon, by upload
// date, along with a reader over its payload. The caller closes the reader.
func LatestAttachment(wagonNumber string) (*FileRecord, io.ReadCloser, error) {
	db := persistence.ActiveDataSourceManager.GormDB()

	w := wagon.WagonRecord{}
	if err := db.Where(&wagon.WagonRecord{WagonNumber: wagonNumber}).First(&w).Error; err != nil {
		return nil, nil, err
	}

	record := FileRecord{}
	if err := db.Where(&FileRecord{WagonNumber: wagonNumber}).
		Order("upload_date DESC").First(&record).Error; err != nil {
		return nil, nil, err
	}

	r, err := ActiveBlobStore.Get(record.Filename)
	if err != nil {
		return nil, nil, err
	}
	return &record, r, nil
}

func AttachmentExists(wagonNumber string) (bool, error) {
	record := FileRecord{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&FileRecord{WagonNumber: wagonNumber}).
		Order("upload_date DESC").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteAttachment removes the database record first, then the payload
// best-effort: a dangling blob is preferable to a record without payload.
func DeleteAttachment(id types.ID, sec *session.Context) error {
	var record FileRecord
	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&FileRecord{ID: id}).First(&record).Error; err != nil {
			return err
		}
		if err := tx.Delete(FileRecord{}, "id = ?", id).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeFile, record.ID, record.Filename,
			event.EventCategoryDeleted,
			[]event.UpdatedProperty{{
				PropertyName: "WagonNumber", PropertyDesc: "Wagon number",
				OldValue: record.WagonNumber, OldValueDesc: record.WagonNumber,
			}},
			&sec.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if txErr != nil {
		return txErr
	}

	if err := ActiveBlobStore.Delete(record.Filename); err != nil {
		logrus.Warnf("failed to delete attachment payload %s: %v", record.Filename, err)
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return nil
}

// CleanWagonAttachments drops all file records of a wagon number. Invoked
// when a wagon record is deleted, mirroring the store's FK cascade.
func CleanWagonAttachments(wagonNumber string, tx *gorm.DB) error {
	records := []FileRecord{}
	if err := tx.Where(&FileRecord{WagonNumber: wagonNumber}).Find(&records).Error; err != nil {
		return err
	}
	if err := tx.Delete(FileRecord{}, "wagon_number = ?", wagonNumber).Error; err != nil {
		return err
	}
	for _, record := range records {
		if err := ActiveBlobStore.Delete(record.Filename); err != nil {
			logrus.Warnf("failed to delete attachment payload %s: %v", record.Filename, err)
		}
	}
	return nil
}
