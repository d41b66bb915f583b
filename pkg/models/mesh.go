// Package models provides the in-memory mesh representation and the loaders
// that decode mesh files into it.
package models

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/taigrr/scanline/pkg/math3d"
)

// ErrFaceIndex is returned by Validate when a face references a vertex that
// does not exist.
var ErrFaceIndex = errors.New("face index out of range")

// Mesh is a triangle mesh placed in the world by a position and an Euler
// rotation. The renderer only reads it; animation mutates Position and
// Rotation between frames.
type Mesh struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3 // Radians, applied X then Y then Z
	Color    color.RGBA  // Base color scaled by light intensity
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box in local space (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle given by three indices into Mesh.Vertices.
type Face struct {
	A, B, C int
}

// Indices returns the face's vertex indices as an array.
func (f Face) Indices() [3]int {
	return [3]int{f.A, f.B, f.C}
}

// NewMesh creates an empty white mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Color:    color.RGBA{255, 255, 255, 255},
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// Validate checks that every face references existing vertices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f.Indices() {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q face %d: index %d of %d vertices: %w", m.Name, i, idx, n, ErrFaceIndex)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// CalculateNormals assigns each face's normal to its three vertices.
// Vertices shared between faces end up with the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		m.Vertices[f.A].Normal = normal
		m.Vertices[f.B].Normal = normal
		m.Vertices[f.C].Normal = normal
	}
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		normal := m.faceNormal(f) // Unnormalized: larger faces weigh more
		m.Vertices[f.A].Normal.AddAssign(normal)
		m.Vertices[f.B].Normal.AddAssign(normal)
		m.Vertices[f.C].Normal.AddAssign(normal)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal.NormalizeInPlace()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.A].Position
	v1 := m.Vertices[f.B].Position
	v2 := m.Vertices[f.C].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = make([]MeshVertex, len(m.Vertices))
	clone.Faces = make([]Face, len(m.Faces))
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return &clone
}

// GetVertex returns the position and normal for vertex i.
// Implements render.MeshRenderer.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].Indices()
}

// Placement returns the mesh's world position and rotation.
// Implements render.MeshRenderer.
func (m *Mesh) Placement() (position, rotation math3d.Vec3) {
	return m.Position, m.Rotation
}

// BaseColor returns the color the mesh is shaded with.
// Implements render.MeshRenderer.
func (m *Mesh) BaseColor() color.RGBA {
	return m.Color
}
