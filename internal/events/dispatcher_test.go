package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventObjectCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("first failed")
	})
	d.Subscribe(EventObjectCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "second:"+e.EntityID)
		return nil
	})
	d.Subscribe(EventObjectDeleted, func(ctx context.Context, e Event) error {
		calls = append(calls, "deleted")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventObjectCreated, "o1", nil))
	if err == nil || err.Error() != "first failed" {
		t.Errorf("got err %v, want first failed", err)
	}
	if len(calls) != 2 || calls[1] != "second:o1" {
		t.Errorf("calls %v, want [first second:o1]", calls)
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventStaffDeleted, "s1", StaffDeletedPayload{OrphanedObjects: 2})
	if e.ID == "" {
		t.Error("event id empty")
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if p, ok := e.Payload.(StaffDeletedPayload); !ok || p.OrphanedObjects != 2 {
		t.Errorf("payload %+v", e.Payload)
	}
}
