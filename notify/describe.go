package notify

import (
	"fmt"
	"wagondepot/event"
)

// Describe renders an event record as the human-readable message pushed to
// the messaging channel.
func Describe(record *event.EventRecord) string {
	subject := describeSubject(record)
	action := describeAction(record.EventCategory)
	when := record.Timestamp.Time().Format("02.01.2006 15:04")

	message := fmt.Sprintf("%s %s %s by %s at %s", subject, record.SourceDesc, action, record.CreatorName, when)
	for _, p := range record.UpdatedProperties {
		if p.OldValue == "" && p.NewValue != "" {
			message += fmt.Sprintf("\n%s: %s", p.PropertyDesc, p.NewValueDesc)
		} else if p.OldValue != p.NewValue {
			message += fmt.Sprintf("\n%s: %s -> %s", p.PropertyDesc, p.OldValueDesc, p.NewValueDesc)
		}
	}
	return message
}

func describeSubject(record *event.EventRecord) string {
	switch record.SourceType {
	case event.SourceTypeWagonRecord:
		return "Wagon"
	case event.SourceTypeCostSheet:
		return "Cost sheet for wagon"
	case event.SourceTypeFile:
		return "File"
	}
	return record.SourceType
}

func describeAction(category event.EventCategory) string {
	switch category {
	case event.EventCategoryCreated:
		return "created"
	case event.EventCategoryDeleted:
		return "deleted"
	case event.EventCategoryPropertyUpdated:
		return "updated"
	}
	return string(category)
}
