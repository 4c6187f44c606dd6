package interaction

import (
	"fmt"
	"time"

	"github.com/spec-kit/placement-studio/internal/domain"
)

// DefaultDoubleActivationWindow pairs two background activations into a
// placement request.
const DefaultDoubleActivationWindow = 300 * time.Millisecond

// Rules holds the transition table. Transition is pure: it never touches
// the store, the scene or the camera and only describes that work as effects.
type Rules struct {
	DoubleActivationWindow time.Duration
}

// Transition returns the next state and the effects to run for e.
// Events that do not apply in the current state return s unchanged.
func (r Rules) Transition(s State, e Event) (State, []Effect) {
	switch ev := e.(type) {
	case HoverResolved:
		if s.Dragging {
			return s, nil
		}
		s.HoveredID = ev.ID
		return s, nil

	case Activation:
		return r.activate(s, ev)

	case SelectObject:
		if s.Pending != nil || s.Dragging {
			return s, nil
		}
		s.SelectedID = ev.ID
		return s, nil

	case RequestPlacement:
		if s.Pending != nil || s.Dragging || s.Busy {
			return s, nil
		}
		s.SelectedID = ""
		s.Pending = &GroundPoint{X: ev.X, Z: ev.Z}
		s.lastBackground = time.Time{}
		return s, nil

	case ResolvePlacement:
		if s.Pending == nil || s.Busy {
			return s, nil
		}
		s.Busy = true
		return s, []Effect{CreateObjectEffect{Input: domain.ObjectInput{
			DisplayName: fmt.Sprintf("Object %d", s.Placements+1),
			OwnerID:     ev.OwnerID,
			ColorHex:    domain.PaletteColor(s.Placements),
			Position:    domain.Position{X: s.Pending.X, Y: domain.RestingHeight, Z: s.Pending.Z},
			SizeClass:   domain.SizeNormal,
		}}}

	case CancelPlacement:
		if s.Pending == nil || s.Busy {
			return s, nil
		}
		s.Pending = nil
		return s, nil

	case StartDrag:
		if s.Pending != nil || s.Dragging || s.Busy || ev.ID == "" || ev.ID != s.SelectedID {
			return s, nil
		}
		s.Dragging = true
		s.Drag = &GroundPoint{X: ev.X, Z: ev.Z}
		return s, []Effect{SetOrbitEffect{Enabled: false}}

	case MoveDrag:
		if !s.Dragging || s.Busy {
			return s, nil
		}
		s.Drag = &GroundPoint{X: ev.X, Z: ev.Z}
		return s, []Effect{MoveBodyEffect{ID: s.SelectedID, X: ev.X, Z: ev.Z}}

	case ReleaseDrag:
		if !s.Dragging || s.Busy || s.Drag == nil {
			return s, nil
		}
		s.Busy = true
		return s, []Effect{
			SetOrbitEffect{Enabled: true},
			UpdatePositionEffect{ID: s.SelectedID, X: s.Drag.X, Z: s.Drag.Z},
		}

	case CommitDrag:
		if s.Pending != nil || s.Busy || ev.ID == "" {
			return s, nil
		}
		effects := []Effect{}
		if s.Dragging {
			if ev.ID != s.SelectedID {
				return s, nil
			}
			s.Drag = &GroundPoint{X: ev.X, Z: ev.Z}
			effects = append(effects, SetOrbitEffect{Enabled: true})
		}
		s.Busy = true
		return s, append(effects,
			MoveBodyEffect{ID: ev.ID, X: ev.X, Z: ev.Z},
			UpdatePositionEffect{ID: ev.ID, X: ev.X, Z: ev.Z},
		)

	case DeleteObject:
		if s.Pending != nil || s.Dragging || s.Busy || ev.ID == "" {
			return s, nil
		}
		s.Busy = true
		return s, []Effect{DeleteObjectEffect{ID: ev.ID}}

	case ObjectCreated:
		s.Busy = false
		s.Error = ""
		s.Pending = nil
		s.Placements++
		s.SelectedID = ev.Object.ID
		return s, nil

	case ObjectUpdated:
		s.Busy = false
		s.Error = ""
		s.Dragging = false
		s.Drag = nil
		s.SelectedID = ev.Object.ID
		return s, nil

	case ObjectDeleted:
		s.Busy = false
		s.Error = ""
		if s.SelectedID == ev.ID {
			s.SelectedID = ""
		}
		if s.HoveredID == ev.ID {
			s.HoveredID = ""
		}
		return s, nil

	case MutationFailed:
		s.Busy = false
		s.Error = ev.Message
		if ev.Op == OpUpdate {
			s.Dragging = false
			s.Drag = nil
		}
		return s, nil

	case ObjectVanished:
		var effects []Effect
		if s.HoveredID == ev.ID {
			s.HoveredID = ""
		}
		if s.SelectedID == ev.ID {
			if s.Dragging {
				s.Dragging = false
				s.Drag = nil
				effects = append(effects, SetOrbitEffect{Enabled: true})
			}
			s.SelectedID = ""
		}
		return s, effects
	}
	return s, nil
}

// activate handles a primary activation. A body hit selects it and resets
// the double activation timer; a background hit clears the selection and
// either arms the timer or, inside the window, fires a placement request
// and disarms it.
func (r Rules) activate(s State, ev Activation) (State, []Effect) {
	if s.Pending != nil || s.Dragging {
		return s, nil
	}
	if ev.HitID != "" {
		s.SelectedID = ev.HitID
		s.lastBackground = time.Time{}
		return s, nil
	}

	s.SelectedID = ""
	last, armed := s.LastBackgroundActivation()
	if !armed || ev.At.Before(last) || ev.At.Sub(last) > r.window() {
		s.lastBackground = ev.At
		return s, nil
	}

	s.lastBackground = time.Time{}
	if ev.Ground != nil && !s.Busy {
		point := *ev.Ground
		s.Pending = &point
	}
	return s, nil
}

func (r Rules) window() time.Duration {
	if r.DoubleActivationWindow <= 0 {
		return DefaultDoubleActivationWindow
	}
	return r.DoubleActivationWindow
}
