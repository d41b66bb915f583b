package math3d

import (
	"errors"
	"math"
	"testing"
)

func TestRotateEulerOrder(t *testing.T) {
	// X first takes +Y to +Z, then Y takes +Z to +X.
	got := RotateEuler(math.Pi/2, math.Pi/2, 0).MulVec3(V3(0, 1, 0))
	if !got.ApproxEqual(V3(1, 0, 0), 1e-9) {
		t.Errorf("Rz*Ry*Rx (0,1,0) = %v, want (1, 0, 0)", got)
	}

	// Z is applied last: +X to +Y under Rz alone.
	got = RotateEuler(0, 0, math.Pi/2).MulVec3(V3(1, 0, 0))
	if !got.ApproxEqual(V3(0, 1, 0), 1e-9) {
		t.Errorf("Rz (1,0,0) = %v, want (0, 1, 0)", got)
	}

	want := RotateZ(0.3).Mul(RotateY(-0.2)).Mul(RotateX(1.1))
	if !RotateEuler(1.1, -0.2, 0.3).ApproxEqual(want, 1e-12) {
		t.Error("RotateEuler does not match Rz*Ry*Rx")
	}
}

func TestWorldMatrix(t *testing.T) {
	w := WorldMatrix(V3(5, 0, 0), V3(0, 0, math.Pi/2))
	got := w.MulVec3(V3(1, 0, 0))
	if !got.ApproxEqual(V3(5, 1, 0), 1e-9) {
		t.Errorf("world (1,0,0) = %v, want (5, 1, 0)", got)
	}
	// Rotation happens before translation.
	if o := w.MulVec3(Zero3()); !o.ApproxEqual(V3(5, 0, 0), 1e-12) {
		t.Errorf("world origin = %v, want (5, 0, 0)", o)
	}
}

func TestLookAt(t *testing.T) {
	t.Run("axis aligned", func(t *testing.T) {
		view, err := LookAt(V3(0, 0, 10), Zero3(), Up())
		if err != nil {
			t.Fatalf("LookAt: %v", err)
		}
		checks := []struct {
			world, want Vec3
		}{
			{V3(0, 0, 10), Zero3()},
			{Zero3(), V3(0, 0, -10)},
			{V3(1, 0, 0), V3(1, 0, -10)},
			{V3(0, 2, 10), V3(0, 2, 0)},
		}
		for _, c := range checks {
			if got := view.MulVec3(c.world); !got.ApproxEqual(c.want, 1e-9) {
				t.Errorf("view %v = %v, want %v", c.world, got, c.want)
			}
		}
	})

	t.Run("oblique", func(t *testing.T) {
		eye := V3(3, 0.5, 6)
		target := V3(0, 0.5, 0.5)
		view, err := LookAt(eye, target, Up())
		if err != nil {
			t.Fatalf("LookAt: %v", err)
		}
		if got := view.MulVec3(eye); !got.ApproxEqual(Zero3(), 1e-9) {
			t.Errorf("eye in view space = %v, want origin", got)
		}
		d := eye.Distance(target)
		if got := view.MulVec3(target); !got.ApproxEqual(V3(0, 0, -d), 1e-9) {
			t.Errorf("target in view space = %v, want (0, 0, %v)", got, -d)
		}
		// The inverse maps the camera frame back into the world.
		inv, ok := view.Invert()
		if !ok {
			t.Fatal("view not invertible")
		}
		if got := inv.MulVec3(Zero3()); !got.ApproxEqual(eye, 1e-9) {
			t.Errorf("camera origin in world = %v, want %v", got, eye)
		}
		// The basis is orthonormal: lengths are preserved.
		p := V3(1, -2, 3)
		q := V3(-4, 0.5, 2)
		if math.Abs(view.MulVec3(p).Distance(view.MulVec3(q))-p.Distance(q)) > 1e-9 {
			t.Error("view matrix does not preserve distances")
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		if _, err := LookAt(V3(1, 1, 1), V3(1, 1, 1), Up()); !errors.Is(err, ErrDegenerateView) {
			t.Errorf("eye == target: err = %v", err)
		}
		if _, err := LookAt(V3(0, 10, 0), Zero3(), Up()); !errors.Is(err, ErrDegenerateView) {
			t.Errorf("up parallel to view: err = %v", err)
		}
	})
}

func TestFixedPerspective(t *testing.T) {
	fixed := FixedPerspective()
	if fixed.Get(0, 0) != 2.414 || fixed.Get(2, 3) != -2.02 || fixed.Get(3, 2) != -1 || fixed.Get(3, 3) != 0 {
		t.Errorf("unexpected layout %v", fixed)
	}
	general := Perspective(math.Pi/4, 1, 1, 101)
	if !general.ApproxEqual(fixed, 1e-3) {
		t.Errorf("Perspective(45°, 1, 1, 101) = %v, want ≈ %v", general, fixed)
	}

	// Depth increases with distance from the camera.
	near := fixed.MulVec4(V4(0, 0, -2, 1))
	far := fixed.MulVec4(V4(0, 0, -50, 1))
	nz, _ := near.PerspectiveDivide()
	fz, _ := far.PerspectiveDivide()
	if nz.Z >= fz.Z {
		t.Errorf("near depth %v should be smaller than far depth %v", nz.Z, fz.Z)
	}
}
