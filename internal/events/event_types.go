package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated  EventType = "staff_created"
	EventStaffUpdated  EventType = "staff_updated"
	EventStaffDeleted  EventType = "staff_deleted"
	EventObjectCreated EventType = "object_created"
	EventObjectUpdated EventType = "object_updated"
	EventObjectDeleted EventType = "object_deleted"
)

// AllTypes lists every event type the store emits.
var AllTypes = []EventType{
	EventStaffCreated,
	EventStaffUpdated,
	EventStaffDeleted,
	EventObjectCreated,
	EventObjectUpdated,
	EventObjectDeleted,
}

// Event represents a change committed by the entity store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, entityID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// ObjectDeletedPayload payload.
type ObjectDeletedPayload struct {
	OwnerID string `json:"owner_id"`
}

// StaffDeletedPayload payload. OrphanedObjects counts objects still
// referencing the removed staff id.
type StaffDeletedPayload struct {
	OrphanedObjects int `json:"orphaned_objects"`
}
