package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	minPolar  = 0.01
	maxPolar  = math.Pi - 0.01
	minRadius = 1.0
	maxRadius = 100.0
)

// focusAnim holds active tweens moving the orbit target.
type focusAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Orbit positions a camera on a sphere around a target. Rotate and Zoom are
// ignored while the controls are disabled. Orbit is not safe for concurrent use.
type Orbit struct {
	Target  mgl64.Vec3
	Radius  float64
	Azimuth float64
	Polar   float64
	FovY    float64

	enabled bool
	focus   *focusAnim
}

// NewOrbit derives spherical coordinates from a camera position and target.
func NewOrbit(position, target mgl64.Vec3, fovY float64) *Orbit {
	offset := position.Sub(target)
	radius := offset.Len()
	if radius < minRadius {
		radius = minRadius
		offset = mgl64.Vec3{0, radius, 0}
	}
	if fovY <= 0 {
		fovY = DefaultFovY
	}
	return &Orbit{
		Target:  target,
		Radius:  radius,
		Azimuth: math.Atan2(offset.X(), offset.Z()),
		Polar:   clamp(math.Acos(clamp(offset.Y()/radius, -1, 1)), minPolar, maxPolar),
		FovY:    fovY,
		enabled: true,
	}
}

// Enabled reports whether pointer input moves the camera.
func (o *Orbit) Enabled() bool {
	return o.enabled
}

// SetEnabled turns camera input on or off.
func (o *Orbit) SetEnabled(enabled bool) {
	o.enabled = enabled
}

// Position returns the camera position in world space.
func (o *Orbit) Position() mgl64.Vec3 {
	sinPolar := math.Sin(o.Polar)
	offset := mgl64.Vec3{
		o.Radius * sinPolar * math.Sin(o.Azimuth),
		o.Radius * math.Cos(o.Polar),
		o.Radius * sinPolar * math.Cos(o.Azimuth),
	}
	return o.Target.Add(offset)
}

// Camera returns the current camera for a viewport of the given aspect.
func (o *Orbit) Camera(aspect float64) Camera {
	return NewCamera(o.Position(), o.Target, o.FovY, aspect)
}

// Rotate moves the camera around the target by the given angles in radians.
// It reports whether the input was applied.
func (o *Orbit) Rotate(deltaAzimuth, deltaPolar float64) bool {
	if !o.enabled {
		return false
	}
	o.Azimuth += deltaAzimuth
	o.Polar = clamp(o.Polar+deltaPolar, minPolar, maxPolar)
	return true
}

// Zoom scales the distance to the target. It reports whether the input was applied.
func (o *Orbit) Zoom(factor float64) bool {
	if !o.enabled || factor <= 0 {
		return false
	}
	o.Radius = clamp(o.Radius*factor, minRadius, maxRadius)
	return true
}

// FocusOn animates the target to point over duration seconds. Ignored while
// the controls are disabled.
func (o *Orbit) FocusOn(point mgl64.Vec3, duration float32, easeFn ease.TweenFunc) bool {
	if !o.enabled {
		return false
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	if duration <= 0 {
		o.Target = point
		o.focus = nil
		return true
	}
	anim := &focusAnim{}
	for i := 0; i < 3; i++ {
		anim.tweens[i] = gween.New(float32(o.Target[i]), float32(point[i]), duration, easeFn)
	}
	o.focus = anim
	return true
}

// Focusing reports whether a focus animation is running.
func (o *Orbit) Focusing() bool {
	return o.focus != nil
}

// Update advances the focus animation by dt seconds.
func (o *Orbit) Update(dt float32) {
	if o.focus == nil {
		return
	}
	finished := true
	for i := 0; i < 3; i++ {
		if o.focus.done[i] {
			continue
		}
		val, done := o.focus.tweens[i].Update(dt)
		o.Target[i] = float64(val)
		o.focus.done[i] = done
		if !done {
			finished = false
		}
	}
	if finished {
		o.focus = nil
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
