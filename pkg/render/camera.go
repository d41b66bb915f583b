package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Camera looks from Position toward Target with +Y as up.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	// Projection parameters. A zero FOV selects math3d.FixedPerspective,
	// which ignores the aspect ratio.
	FOV  float64 // Vertical field of view in radians
	Near float64
	Far  float64
}

// NewCamera creates a camera using the fixed projection.
func NewCamera(position, target math3d.Vec3) *Camera {
	return &Camera{
		Position: position,
		Target:   target,
		Near:     1,
		Far:      101,
	}
}

// ViewMatrix returns the world-to-camera matrix. It fails with
// math3d.ErrDegenerateView when the camera sits on its target or looks
// straight up or down.
func (c *Camera) ViewMatrix() (math3d.Mat4, error) {
	return math3d.LookAt(c.Position, c.Target, math3d.Up())
}

// ProjectionMatrix returns the camera-to-clip matrix for a viewport with the
// given width/height ratio.
func (c *Camera) ProjectionMatrix(aspect float64) math3d.Mat4 {
	if c.FOV <= 0 {
		return math3d.FixedPerspective()
	}
	near, far := c.Near, c.Far
	if near <= 0 {
		near = 1
	}
	if far <= near {
		far = near + 100
	}
	if aspect <= 0 {
		aspect = 1
	}
	return math3d.Perspective(c.FOV, aspect, near, far)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// MoveForward moves the camera toward its target (or away if negative)
// without passing it.
func (c *Camera) MoveForward(distance float64) {
	remaining := c.Position.Distance(c.Target)
	if distance >= remaining {
		distance = remaining * 0.9
	}
	c.Position.AddAssign(c.Forward().Scale(distance))
}

// Orbit rotates the camera position around the target's vertical axis.
func (c *Camera) Orbit(angle float64) {
	offset := c.Position.Sub(c.Target)
	sin, cos := math.Sincos(angle)
	offset = math3d.V3(offset.X*cos+offset.Z*sin, offset.Y, -offset.X*sin+offset.Z*cos)
	c.Position = c.Target.Add(offset)
}
