package models

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// NewCube builds an axis-aligned cube centered at the origin. Each side has
// its own four vertices so normals stay perpendicular to the faces.
func NewCube(name string, size float64) *Mesh {
	h := size / 2
	m := NewMesh(name)

	sides := []struct {
		normal  math3d.Vec3
		corners [4]math3d.Vec3
	}{
		{math3d.V3(0, 0, 1), [4]math3d.Vec3{{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}}},
		{math3d.V3(0, 0, -1), [4]math3d.Vec3{{X: h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: -h}, {X: -h, Y: h, Z: -h}, {X: h, Y: h, Z: -h}}},
		{math3d.V3(1, 0, 0), [4]math3d.Vec3{{X: h, Y: -h, Z: h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: h, Y: h, Z: h}}},
		{math3d.V3(-1, 0, 0), [4]math3d.Vec3{{X: -h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: h}, {X: -h, Y: h, Z: h}, {X: -h, Y: h, Z: -h}}},
		{math3d.V3(0, 1, 0), [4]math3d.Vec3{{X: -h, Y: h, Z: h}, {X: h, Y: h, Z: h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}}},
		{math3d.V3(0, -1, 0), [4]math3d.Vec3{{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: -h, Z: h}, {X: -h, Y: -h, Z: h}}},
	}

	for _, s := range sides {
		base := len(m.Vertices)
		for _, c := range s.corners {
			m.Vertices = append(m.Vertices, MeshVertex{Position: c, Normal: s.normal})
		}
		m.Faces = append(m.Faces,
			Face{base, base + 1, base + 2},
			Face{base, base + 2, base + 3},
		)
	}

	m.CalculateBounds()
	return m
}

// NewPlane builds a flat grid on the XZ plane facing +Y.
func NewPlane(name string, size float64, divisions int) *Mesh {
	return NewGrid(name, size, divisions, nil)
}

// HeightFunc returns the surface height at a point of the XZ plane.
type HeightFunc func(x, z float64) float64

// NewGrid builds a square grid of size×size world units on the XZ plane,
// split into divisions×divisions quads. A nil height gives a flat plane
// facing +Y; otherwise vertices are displaced and smooth normals computed.
func NewGrid(name string, size float64, divisions int, height HeightFunc) *Mesh {
	if divisions < 1 {
		divisions = 1
	}
	m := NewMesh(name)
	step := size / float64(divisions)
	half := size / 2
	row := divisions + 1

	for iz := 0; iz <= divisions; iz++ {
		for ix := 0; ix <= divisions; ix++ {
			x := -half + float64(ix)*step
			z := -half + float64(iz)*step
			y := 0.0
			if height != nil {
				y = height(x, z)
			}
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: math3d.V3(x, y, z),
				Normal:   math3d.Up(),
			})
		}
	}

	for iz := range divisions {
		for ix := range divisions {
			i0 := iz*row + ix
			i1 := i0 + 1
			i2 := i0 + row
			i3 := i2 + 1
			m.Faces = append(m.Faces,
				Face{i0, i2, i1},
				Face{i1, i2, i3},
			)
		}
	}

	if height != nil {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	return m
}
