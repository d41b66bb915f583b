package scene

import (
	"errors"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// ErrEmptyPath is returned for a path animation without waypoints.
var ErrEmptyPath = errors.New("path has no waypoints")

// Animator changes a mesh between frames. Step advances one frame.
type Animator interface {
	Step()
}

// SpinAnimator turns a mesh at a constant rate. The angular velocity eases
// in from rest through a critically damped spring.
type SpinAnimator struct {
	mesh   *models.Mesh
	rate   math3d.Vec3 // Target radians per frame
	vel    math3d.Vec3
	accel  math3d.Vec3 // Spring velocity of vel
	spring harmonica.Spring
}

// NewSpinAnimator spins mesh at rate radians per second, stepped fps times
// per second.
func NewSpinAnimator(mesh *models.Mesh, rate math3d.Vec3, fps int) *SpinAnimator {
	fps = stepRate(fps)
	return &SpinAnimator{
		mesh:   mesh,
		rate:   rate.Div(float64(fps)),
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Step implements Animator.
func (a *SpinAnimator) Step() {
	a.vel.X, a.accel.X = a.spring.Update(a.vel.X, a.accel.X, a.rate.X)
	a.vel.Y, a.accel.Y = a.spring.Update(a.vel.Y, a.accel.Y, a.rate.Y)
	a.vel.Z, a.accel.Z = a.spring.Update(a.vel.Z, a.accel.Z, a.rate.Z)
	a.mesh.Rotation.AddAssign(a.vel)
}

// Velocity returns the current angular velocity in radians per frame.
func (a *SpinAnimator) Velocity() math3d.Vec3 {
	return a.vel
}

// PathAnimator pulls a mesh toward each waypoint in turn with a spring and
// turns it to face its direction of travel. The path loops.
type PathAnimator struct {
	mesh      *models.Mesh
	waypoints []math3d.Vec3
	next      int
	tolerance float64
	vel       math3d.Vec3
	spring    harmonica.Spring
}

// NewPathAnimator creates a looping path. frequency is the spring's angular
// frequency and damping its damping ratio; a waypoint counts as reached
// within tolerance world units.
func NewPathAnimator(mesh *models.Mesh, waypoints []math3d.Vec3, fps int, frequency, damping, tolerance float64) (*PathAnimator, error) {
	if len(waypoints) == 0 {
		return nil, ErrEmptyPath
	}
	fps = stepRate(fps)
	if frequency <= 0 {
		frequency = 1
	}
	if damping <= 0 {
		damping = 1
	}
	if tolerance <= 0 {
		tolerance = 0.5
	}
	return &PathAnimator{
		mesh:      mesh,
		waypoints: append([]math3d.Vec3(nil), waypoints...),
		tolerance: tolerance,
		spring:    harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}, nil
}

// Step implements Animator.
func (a *PathAnimator) Step() {
	target := a.waypoints[a.next]
	p := &a.mesh.Position
	p.X, a.vel.X = a.spring.Update(p.X, a.vel.X, target.X)
	p.Y, a.vel.Y = a.spring.Update(p.Y, a.vel.Y, target.Y)
	p.Z, a.vel.Z = a.spring.Update(p.Z, a.vel.Z, target.Z)

	if a.vel.X*a.vel.X+a.vel.Z*a.vel.Z > 1e-6 {
		a.mesh.Rotation.Y = math.Atan2(a.vel.X, a.vel.Z)
	}
	if p.Distance(target) <= a.tolerance {
		a.next = (a.next + 1) % len(a.waypoints)
	}
}

// Next returns the index of the waypoint being approached.
func (a *PathAnimator) Next() int {
	return a.next
}

func stepRate(fps int) int {
	if fps <= 0 {
		return 60
	}
	return fps
}
