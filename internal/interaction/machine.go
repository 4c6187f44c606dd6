package interaction

import (
	"github.com/spec-kit/placement-studio/internal/spatial"
)

// Machine holds the interaction state and resolves raw pointer events
// against the raycaster candidate set before applying Rules.
// Machine is not safe for concurrent use.
type Machine struct {
	rules     Rules
	state     State
	raycaster *spatial.Raycaster
	orbit     *spatial.Orbit
	viewport  spatial.Viewport
}

// NewMachine creates a machine in the idle state.
func NewMachine(rules Rules, raycaster *spatial.Raycaster, orbit *spatial.Orbit, viewport spatial.Viewport) *Machine {
	return &Machine{
		rules:     rules,
		raycaster: raycaster,
		orbit:     orbit,
		viewport:  viewport,
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Reset returns to the idle state.
func (m *Machine) Reset() {
	m.state = State{}
}

// Viewport returns the canvas rectangle pointer coordinates refer to.
func (m *Machine) Viewport() spatial.Viewport {
	return m.viewport
}

// SetViewport changes the canvas rectangle.
func (m *Machine) SetViewport(vp spatial.Viewport) {
	m.viewport = vp
}

// Dispatch resolves e, applies the transition and returns its effects.
func (m *Machine) Dispatch(e Event) []Effect {
	next, effects := m.rules.Transition(m.state, m.Resolve(e))
	m.state = next
	return effects
}

// Resolve turns raw pointer events into hover and activation events.
// Other events are returned unchanged.
func (m *Machine) Resolve(e Event) Event {
	switch ev := e.(type) {
	case PointerMove:
		ray, ok := m.ray(ev.PX, ev.PY)
		if !ok {
			return HoverResolved{}
		}
		hit, ok := m.raycaster.NearestHit(ray)
		if !ok {
			return HoverResolved{}
		}
		return HoverResolved{ID: hit.ID}

	case PointerActivate:
		activation := Activation{At: ev.At}
		ray, ok := m.ray(ev.PX, ev.PY)
		if !ok {
			return activation
		}
		if hit, ok := m.raycaster.NearestHit(ray); ok {
			activation.HitID = hit.ID
			return activation
		}
		if p, ok := m.raycaster.GroundHit(ray); ok {
			activation.Ground = &GroundPoint{X: p.X(), Z: p.Z()}
		}
		return activation
	}
	return e
}

func (m *Machine) ray(px, py float64) (spatial.Ray, bool) {
	ndc, ok := m.viewport.NDC(px, py)
	if !ok {
		return spatial.Ray{}, false
	}
	return m.orbit.Camera(m.viewport.Aspect()).Ray(ndc), true
}
