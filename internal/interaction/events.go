package interaction

import (
	"time"

	"github.com/spec-kit/placement-studio/internal/domain"
)

// Event is anything the state machine reacts to.
type Event interface {
	eventName() string
}

// Raw pointer input, resolved by Machine before the transition runs.
type (
	PointerMove struct {
		PX, PY float64
	}
	PointerActivate struct {
		PX, PY float64
		At     time.Time
	}
)

// Resolved pointer input.
type (
	// HoverResolved carries the nearest body under the pointer, empty for none.
	HoverResolved struct {
		ID string
	}
	// Activation is a primary press and release. HitID is empty for the
	// background; Ground is the ground hit in that case, if any.
	Activation struct {
		At     time.Time
		HitID  string
		Ground *GroundPoint
	}
)

// Operator intents.
type (
	SelectObject struct {
		ID string
	}
	RequestPlacement struct {
		X, Z float64
	}
	ResolvePlacement struct {
		OwnerID string
	}
	// StartDrag begins dragging the selected body from (X, Z).
	StartDrag struct {
		ID   string
		X, Z float64
	}
	MoveDrag struct {
		X, Z float64
	}
	CommitDrag struct {
		ID   string
		X, Z float64
	}
	DeleteObject struct {
		ID string
	}
)

type CancelPlacement struct{}

type ReleaseDrag struct{}

// Store outcomes fed back after an effect ran.
type (
	ObjectCreated struct {
		Object domain.PlacedObject
	}
	ObjectUpdated struct {
		Object domain.PlacedObject
	}
	ObjectDeleted struct {
		ID string
	}
	MutationFailed struct {
		Op      string
		ID      string
		Message string
	}
	// ObjectVanished reports a body removed by a change made outside the session.
	ObjectVanished struct {
		ID string
	}
)

func (PointerMove) eventName() string      { return "pointer_move" }
func (PointerActivate) eventName() string  { return "pointer_activate" }
func (HoverResolved) eventName() string    { return "hover" }
func (Activation) eventName() string       { return "activation" }
func (SelectObject) eventName() string     { return "select_object" }
func (RequestPlacement) eventName() string { return "request_placement" }
func (ResolvePlacement) eventName() string { return "resolve_placement" }
func (CancelPlacement) eventName() string  { return "cancel_placement" }
func (StartDrag) eventName() string        { return "start_drag" }
func (MoveDrag) eventName() string         { return "move_drag" }
func (ReleaseDrag) eventName() string      { return "release_drag" }
func (CommitDrag) eventName() string       { return "commit_drag" }
func (DeleteObject) eventName() string     { return "delete_object" }
func (ObjectCreated) eventName() string    { return "object_created" }
func (ObjectUpdated) eventName() string    { return "object_updated" }
func (ObjectDeleted) eventName() string    { return "object_deleted" }
func (MutationFailed) eventName() string   { return "mutation_failed" }
func (ObjectVanished) eventName() string   { return "object_vanished" }

// EventName returns the metric name of e.
func EventName(e Event) string {
	return e.eventName()
}
