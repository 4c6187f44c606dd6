package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the on-screen rectangle of the rendered canvas, in pixels.
type Viewport struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NDC is a point in normalized device coordinates, both axes in [-1, 1]
// with +Y up.
type NDC struct {
	X, Y float64
}

// NDC converts a pixel position to normalized device coordinates. It reports
// false for an empty viewport.
func (v Viewport) NDC(px, py float64) (NDC, bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return NDC{}, false
	}
	return NDC{
		X: ((px-v.Left)/v.Width)*2 - 1,
		Y: -((py-v.Top)/v.Height)*2 + 1,
	}, true
}

// Pixel converts normalized device coordinates back to a pixel position.
func (v Viewport) Pixel(p NDC) (float64, float64) {
	return v.Left + (p.X+1)/2*v.Width, v.Top + (1-p.Y)/2*v.Height
}

// Aspect returns width over height, or 1 for an empty viewport.
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// Camera is a perspective camera. FovY is the vertical field of view in degrees.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64
	Aspect   float64
	Near     float64
	Far      float64
}

// Default camera placement for a fresh scene.
var (
	DefaultCameraPosition = mgl64.Vec3{4, 5, 6}
	DefaultFovY           = 45.0
)

const (
	defaultNear = 0.1
	defaultFar  = 1000
)

// NewCamera builds a camera looking from position at target.
func NewCamera(position, target mgl64.Vec3, fovY, aspect float64) Camera {
	if fovY <= 0 {
		fovY = DefaultFovY
	}
	if aspect <= 0 {
		aspect = 1
	}
	return Camera{
		Position: position,
		Target:   target,
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     fovY,
		Aspect:   aspect,
		Near:     defaultNear,
		Far:      defaultFar,
	}
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// Ray returns the ray from the camera through the given NDC point.
func (c Camera) Ray(p NDC) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	far := unproject(inv, p.X, p.Y, 1)
	return Ray{
		Origin:    c.Position,
		Direction: far.Sub(c.Position).Normalize(),
	}
}

// Project maps a world point to normalized device coordinates.
func (c Camera) Project(p mgl64.Vec3) NDC {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip.W() == 0 {
		return NDC{}
	}
	return NDC{X: clip.X() / clip.W(), Y: clip.Y() / clip.W()}
}

func unproject(inv mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	v := inv.Mul4x1(mgl64.Vec4{x, y, z, 1})
	if v.W() == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v.W())
}
