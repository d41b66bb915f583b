package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

func TestSpinAnimatorEasesToRate(t *testing.T) {
	mesh := models.NewCube("c", 1)
	a := NewSpinAnimator(mesh, math3d.V3(0, math.Pi, 0), 60)

	prev := 0.0
	for range 240 {
		a.Step()
		if mesh.Rotation.Y < prev {
			t.Fatalf("rotation went backwards: %v < %v", mesh.Rotation.Y, prev)
		}
		prev = mesh.Rotation.Y
	}

	want := math.Pi / 60
	if got := a.Velocity().Y; math.Abs(got-want) > want*0.01 {
		t.Errorf("velocity after 4s = %v, want %v", got, want)
	}
	if mesh.Rotation.X != 0 || mesh.Rotation.Z != 0 {
		t.Errorf("other axes moved: %v", mesh.Rotation)
	}
}

func TestPathAnimatorVisitsWaypoints(t *testing.T) {
	mesh := models.NewCube("c", 1)
	waypoints := []math3d.Vec3{math3d.V3(10, 0, 0), math3d.V3(10, 0, 10)}
	a, err := NewPathAnimator(mesh, waypoints, 60, 6, 1, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	steps := 0
	for a.Next() == 0 && steps < 600 {
		a.Step()
		steps++
	}
	if a.Next() != 1 {
		t.Fatalf("first waypoint not reached after %d steps, at %v", steps, mesh.Position)
	}
	if mesh.Position.Distance(waypoints[0]) > 0.5 {
		t.Errorf("advanced while %v away", mesh.Position.Distance(waypoints[0]))
	}
	// Moving along +X faces +X.
	if math.Abs(mesh.Rotation.Y-math.Pi/2) > 1e-6 {
		t.Errorf("heading = %v, want π/2", mesh.Rotation.Y)
	}

	for a.Next() == 1 && steps < 1200 {
		a.Step()
		steps++
	}
	if a.Next() != 0 {
		t.Error("path did not loop back to the first waypoint")
	}
}

func TestPathAnimatorErrors(t *testing.T) {
	if _, err := NewPathAnimator(models.NewCube("c", 1), nil, 60, 1, 1, 1); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("err = %v, want ErrEmptyPath", err)
	}
}

func BenchmarkSceneStep(b *testing.B) {
	s, err := New(Default(), "")
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		s.Step()
	}
}
