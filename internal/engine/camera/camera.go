// Package camera provides the orbit camera used to view models.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY      float32 // Vertical field of view (radians)
	Near, Far float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with defaults sized for models
// a few units across.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		RotationX:       0.4,
		FovY:            math32.Pi / 4,
		Near:            0.05,
		Far:             500,
		MinDistance:     0.1,
		MaxDistance:     200,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := math32.Sincos(c.RotationX)
	sinY, cosY := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosX * sinY,
		Y: c.Distance * sinX,
		Z: c.Distance * cosX * cosY,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Combined returns projection * view.
func (c *OrbitCamera) Combined(aspect float32) math.Mat4 {
	return c.Projection(aspect).Mul(c.ViewMatrix())
}

// ViewSize returns the world-space width and height visible at the center distance.
func (c *OrbitCamera) ViewSize(aspect float32) (w, h float32) {
	h = 2 * c.Distance * math32.Tan(c.FovY/2)
	return h * aspect, h
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = min(max(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01
	sinY, cosY := math32.Sincos(c.RotationY)

	// Negate forward so W moves "into" the scene
	c.Center.X += (-sinY*forward + cosY*right) * speed
	c.Center.Z += (-cosY*forward - sinY*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds centers the camera on the box and backs off until the whole
// box fits vertically in view.
func (c *OrbitCamera) FitToBounds(minP, maxP math.Vec3) {
	c.Center = minP.Add(maxP).Scale(0.5)

	radius := maxP.Sub(minP).Length() / 2
	if radius <= 0 {
		return
	}
	c.Distance = min(max(radius/math32.Sin(c.FovY/2), c.MinDistance), c.MaxDistance)
	c.Far = max(c.Far, c.Distance+radius*4)
}
