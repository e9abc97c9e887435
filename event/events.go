package event

import (
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// CreateEvent persists an event record within the caller's transaction and
// returns it, so that handlers can be invoked once the transaction commits.
func CreateEvent(sourceType string, sourceId types.ID, sourceDesc string, category EventCategory,
	updatedProperties []UpdatedProperty, identity *session.Identity,
	timestamp types.Timestamp, db *gorm.DB) (*EventRecord, error) {

	record := EventRecord{
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   identity.ID,
			CreatorName: identity.DisplayName(),
		},
		Synced:    false,
		Timestamp: timestamp,
	}
	if err := EventPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}
