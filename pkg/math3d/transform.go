package math3d

import (
	"errors"
	"math"
)

// ErrDegenerateView is returned by LookAt when the eye coincides with the
// target or the up vector is parallel to the viewing direction. Such a camera
// has no orthonormal basis; callers must fix their inputs.
var ErrDegenerateView = errors.New("math3d: degenerate view basis")

// degenerateEpsilon bounds the squared length below which LookAt treats a
// basis vector as zero.
const degenerateEpsilon = 1e-18

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateEuler composes rotations about X, Y and Z as Rz * Ry * Rx, so a
// vector is rotated about X first, then Y, then Z.
func RotateEuler(rx, ry, rz float64) Mat4 {
	return RotateZ(rz).Mul(RotateY(ry)).Mul(RotateX(rx))
}

// WorldMatrix builds the model-to-world matrix for an object at position
// with Euler rotation (radians) and unit scale.
func WorldMatrix(position, rotation Vec3) Mat4 {
	return Translate(position).
		Mul(RotateEuler(rotation.X, rotation.Y, rotation.Z)).
		Mul(Scale(One3()))
}

// LookAt builds the world-to-view matrix for a camera at eye looking at
// target. The camera-to-world basis is assembled explicitly and inverted.
func LookAt(eye, target, up Vec3) (Mat4, error) {
	forward := eye.Sub(target)
	if forward.LenSq() < degenerateEpsilon {
		return Identity(), ErrDegenerateView
	}
	zAxis := forward.Normalize()

	side := up.Normalize().Cross(zAxis)
	if side.LenSq() < degenerateEpsilon {
		return Identity(), ErrDegenerateView
	}
	xAxis := side.Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()

	cameraToWorld := Mat4{
		xAxis.X, xAxis.Y, xAxis.Z, 0,
		yAxis.X, yAxis.Y, yAxis.Z, 0,
		zAxis.X, zAxis.Y, zAxis.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}

	view, ok := cameraToWorld.Invert()
	if !ok {
		return Identity(), ErrDegenerateView
	}
	return view, nil
}

// Perspective creates a perspective projection matrix.
// fovy is vertical field of view in radians.
// aspect is width/height.
// near and far are clipping planes.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// FixedPerspective returns the renderer's projection: a 45° vertical field
// of view, square aspect, near plane 1 and far plane 101, rounded.
func FixedPerspective() Mat4 {
	return FromRows(
		[4]float64{2.414, 0, 0, 0},
		[4]float64{0, 2.414, 0, 0},
		[4]float64{0, 0, -1.02, -2.02},
		[4]float64{0, 0, -1, 0},
	)
}
