package spatial

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the nearest body a ray touched.
type Hit struct {
	ID    string
	T     float64
	Point mgl64.Vec3
}

// Raycaster resolves rays against a set of candidate bodies keyed by the id
// of the object they represent.
type Raycaster struct {
	mu         sync.RWMutex
	candidates map[string]Box
}

// NewRaycaster creates an empty candidate set.
func NewRaycaster() *Raycaster {
	return &Raycaster{candidates: make(map[string]Box)}
}

// Add inserts or replaces the body for id.
func (r *Raycaster) Add(id string, body Box) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[id] = body
}

// Remove drops the body for id.
func (r *Raycaster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.candidates, id)
}

// Replace swaps the whole candidate set in one step.
func (r *Raycaster) Replace(bodies map[string]Box) {
	next := make(map[string]Box, len(bodies))
	for id, body := range bodies {
		next[id] = body
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates = next
}

// Has reports whether id is a candidate.
func (r *Raycaster) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.candidates[id]
	return ok
}

// Len returns the number of candidates.
func (r *Raycaster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates)
}

// IDs returns the candidate ids in sorted order.
func (r *Raycaster) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.candidates))
	for id := range r.candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NearestHit returns only the candidate with the smallest ray parameter.
// Equal parameters resolve to the lexically smaller id so the answer does
// not depend on map order.
func (r *Raycaster) NearestHit(ray Ray) (Hit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Hit
	found := false
	for id, body := range r.candidates {
		t, ok := ray.IntersectBox(body)
		if !ok {
			continue
		}
		if !found || t < best.T || (t == best.T && id < best.ID) {
			best = Hit{ID: id, T: t}
			found = true
		}
	}
	if found {
		best.Point = ray.At(best.T)
	}
	return best, found
}

// GroundHit intersects ray with the ground plane.
func (r *Raycaster) GroundHit(ray Ray) (mgl64.Vec3, bool) {
	return ray.IntersectGround()
}
