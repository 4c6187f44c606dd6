package scene

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/spatial"
)

const (
	selectedColor    = "#111827"
	hoveredColor     = "#1f2937"
	defaultEmissive  = "#000000"
	selectedEmissive = 0.4
	restingEmissive  = 0.1
)

// Visual is the render description of one body.
type Visual struct {
	ID                string          `json:"id"`
	DisplayName       string          `json:"display_name"`
	OwnerID           string          `json:"owner_id"`
	Position          domain.Position `json:"position"`
	Scale             float64         `json:"scale"`
	Color             string          `json:"color"`
	Emissive          string          `json:"emissive"`
	EmissiveIntensity float64         `json:"emissive_intensity"`
	Hovered           bool            `json:"hovered"`
	Selected          bool            `json:"selected"`
}

// Affordance is the drag handle attached to the selected body.
type Affordance struct {
	ID       string          `json:"id"`
	Position domain.Position `json:"position"`
}

// Projection keeps one body per placed object and mirrors the bodies into
// the raycaster candidate set. Both are changed under the same lock.
type Projection struct {
	mu        sync.RWMutex
	bodies    map[string]domain.PlacedObject
	raycaster *spatial.Raycaster
}

// NewProjection creates an empty scene bound to raycaster.
func NewProjection(raycaster *spatial.Raycaster) *Projection {
	if raycaster == nil {
		raycaster = spatial.NewRaycaster()
	}
	return &Projection{
		bodies:    make(map[string]domain.PlacedObject),
		raycaster: raycaster,
	}
}

// Raycaster returns the candidate set fed by this scene.
func (p *Projection) Raycaster() *spatial.Raycaster {
	return p.raycaster
}

// Sync replaces every body with the given objects.
func (p *Projection) Sync(objects []domain.PlacedObject) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bodies := make(map[string]domain.PlacedObject, len(objects))
	boxes := make(map[string]spatial.Box, len(objects))
	for _, object := range objects {
		bodies[object.ID] = object
		boxes[object.ID] = bodyBox(object)
	}
	p.bodies = bodies
	p.raycaster.Replace(boxes)
}

// Upsert adds or replaces the body of one object.
func (p *Projection) Upsert(object domain.PlacedObject) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies[object.ID] = object
	p.raycaster.Add(object.ID, bodyBox(object))
}

// Remove drops the body for id. It reports whether a body was removed.
func (p *Projection) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.bodies[id]; !ok {
		return false
	}
	delete(p.bodies, id)
	p.raycaster.Remove(id)
	return true
}

// MoveBody translates a body on the ground plane, keeping its height.
func (p *Projection) MoveBody(id string, x, z float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	object, ok := p.bodies[id]
	if !ok {
		return false
	}
	object.Position.X = x
	object.Position.Z = z
	p.bodies[id] = object
	p.raycaster.Add(id, bodyBox(object))
	return true
}

// Has reports whether a body for id is rendered.
func (p *Projection) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.bodies[id]
	return ok
}

// Body returns the object currently shown for id.
func (p *Projection) Body(id string) (domain.PlacedObject, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	object, ok := p.bodies[id]
	return object, ok
}

// Len returns the number of rendered bodies.
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.bodies)
}

// Render returns the visuals ordered by id. Hover and selection are
// independent layers; selection wins the color when both apply.
func (p *Projection) Render(hoveredID, selectedID string) []Visual {
	p.mu.RLock()
	defer p.mu.RUnlock()

	visuals := make([]Visual, 0, len(p.bodies))
	for _, object := range p.bodies {
		v := Visual{
			ID:                object.ID,
			DisplayName:       object.DisplayName,
			OwnerID:           object.OwnerID,
			Position:          object.Position,
			Scale:             object.SizeClass.Scale(),
			Color:             object.ColorHex,
			Emissive:          defaultEmissive,
			EmissiveIntensity: restingEmissive,
			Hovered:           hoveredID != "" && object.ID == hoveredID,
			Selected:          selectedID != "" && object.ID == selectedID,
		}
		switch {
		case v.Selected:
			v.Color = selectedColor
			v.Emissive = selectedColor
			v.EmissiveIntensity = selectedEmissive
		case v.Hovered:
			v.Color = hoveredColor
		}
		visuals = append(visuals, v)
	}
	sort.Slice(visuals, func(i, j int) bool { return visuals[i].ID < visuals[j].ID })
	return visuals
}

// Affordance returns the drag handle for the selected body, if it is rendered.
func (p *Projection) Affordance(selectedID string) (Affordance, bool) {
	if selectedID == "" {
		return Affordance{}, false
	}
	object, ok := p.Body(selectedID)
	if !ok {
		return Affordance{}, false
	}
	return Affordance{ID: object.ID, Position: object.Position}, true
}

// Clear removes every body and empties the candidate set.
func (p *Projection) Clear() {
	p.Sync(nil)
}

func bodyBox(object domain.PlacedObject) spatial.Box {
	center := mgl64.Vec3{object.Position.X, object.Position.Y, object.Position.Z}
	return spatial.BoxAround(center, object.SizeClass.Scale())
}
