package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GroundEpsilon is the smallest |direction.y| for which a ray is considered
// to cross the ground plane.
const GroundEpsilon = 1e-6

// Ray is a half-line. Direction is expected to be normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Box is an axis-aligned box.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BoxAround returns the cube of the given edge length centered on center.
func BoxAround(center mgl64.Vec3, edge float64) Box {
	h := edge / 2
	half := mgl64.Vec3{h, h, h}
	return Box{Min: center.Sub(half), Max: center.Add(half)}
}

// IntersectBox returns the smallest non-negative ray parameter at which the
// ray touches b. When the origin is inside the box the exit parameter is
// returned.
func (r Ray) IntersectBox(b Box) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if math.Abs(d) < GroundEpsilon {
			if o < b.Min[i] || o > b.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[i] - o) / d
		t2 := (b.Max[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}

// IntersectGround intersects the ray with the plane y = 0. A ray nearly
// parallel to the plane, or one pointing away from it, has no hit.
func (r Ray) IntersectGround() (mgl64.Vec3, bool) {
	dy := r.Direction.Y()
	if math.Abs(dy) < GroundEpsilon {
		return mgl64.Vec3{}, false
	}
	t := -r.Origin.Y() / dy
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	p := r.At(t)
	p[1] = 0
	return p, true
}
