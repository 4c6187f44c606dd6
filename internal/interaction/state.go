// Package interaction turns pointer input and operator intents into
// selection, placement and drag transitions over the workspace.
package interaction

import "time"

// Phase names the current interaction mode.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseHovering      Phase = "hovering"
	PhaseSelected      Phase = "selected"
	PhaseAwaitingOwner Phase = "awaiting_owner_choice"
	PhaseDragging      Phase = "dragging"
)

// GroundPoint is a point on the ground plane.
type GroundPoint struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// State is the full interaction state. Hover is a layer on top of the
// selection, placement and drag modes.
type State struct {
	HoveredID  string
	SelectedID string
	// Pending is set while a placement waits for an owner.
	Pending *GroundPoint
	// Dragging applies to SelectedID; Drag holds the live body position.
	Dragging bool
	Drag     *GroundPoint
	// Busy is set while a store mutation is outstanding.
	Busy  bool
	Error string
	// Placements counts objects created by this session.
	Placements int

	lastBackground time.Time
}

// Phase derives the mode from the state fields.
func (s State) Phase() Phase {
	switch {
	case s.Pending != nil:
		return PhaseAwaitingOwner
	case s.Dragging:
		return PhaseDragging
	case s.SelectedID != "":
		return PhaseSelected
	case s.HoveredID != "":
		return PhaseHovering
	default:
		return PhaseIdle
	}
}

// LastBackgroundActivation returns the time of the background activation
// that may still pair into a double activation.
func (s State) LastBackgroundActivation() (time.Time, bool) {
	return s.lastBackground, !s.lastBackground.IsZero()
}
