package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/scanline/pkg/math3d"
)

// ErrInvalidMesh is returned by RenderFrame when a mesh fails validation.
var ErrInvalidMesh = errors.New("invalid mesh")

// ErrNoFramebuffer is returned by RenderFrame when the rasterizer has no
// framebuffer to draw into.
var ErrNoFramebuffer = errors.New("no framebuffer")

// MeshRenderer is the read-only view of a mesh the renderer needs. It is
// declared here so render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	Placement() (position, rotation math3d.Vec3)
	BaseColor() Color
}

// Frame is everything needed to draw one image.
type Frame struct {
	Camera       Camera
	Meshes       []MeshRenderer
	Lights       []Light
	Shading      ShadingMode
	Illumination IlluminationModel
	Background   Color
}

// RenderFrame clears the buffers and draws every mesh of f. The camera and
// all face indices are checked first; on error no pixel is written.
func (r *Rasterizer) RenderFrame(f Frame) error {
	if r.fb == nil {
		return ErrNoFramebuffer
	}
	view, err := f.Camera.ViewMatrix()
	if err != nil {
		return fmt.Errorf("camera at %v looking at %v: %w", f.Camera.Position, f.Camera.Target, err)
	}
	for i, m := range f.Meshes {
		if err := ValidateMesh(m); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	aspect := 1.0
	if r.Height() > 0 {
		aspect = float64(r.Width()) / float64(r.Height())
	}
	viewProj := f.Camera.ProjectionMatrix(aspect).Mul(view)
	shader := NewShader(f.Shading, Lighting{
		Lights: f.Lights,
		Eye:    f.Camera.Position,
		Model:  f.Illumination,
	})

	r.fb.Clear(f.Background)
	r.ClearDepth()
	r.ResetStats()

	for _, m := range f.Meshes {
		r.DrawMesh(m, viewProj, shader)
	}
	return nil
}

// ValidateMesh reports ErrInvalidMesh when a face references a vertex that
// does not exist.
func ValidateMesh(m MeshRenderer) error {
	n := m.VertexCount()
	for i := range m.TriangleCount() {
		for _, idx := range m.GetFace(i) {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d index %d, %d vertices", ErrInvalidMesh, i, idx, n)
			}
		}
	}
	return nil
}

// DrawMesh projects every vertex of mesh once and rasterizes its faces.
// Faces with a vertex that cannot be projected are skipped. The mesh must
// already be valid.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, viewProj math3d.Mat4, shader Shader) {
	pos, rot := mesh.Placement()
	world := math3d.WorldMatrix(pos, rot)
	transform := viewProj.Mul(world)

	n := mesh.VertexCount()
	if cap(r.projected) < n {
		r.projected = make([]ProjectedVertex, n)
		r.visible = make([]bool, n)
	}
	projected := r.projected[:n]
	visible := r.visible[:n]
	for i := range n {
		p, normal := mesh.GetVertex(i)
		projected[i], visible[i] = Project(p, normal, transform, world, r.Width(), r.Height())
	}

	base := mesh.BaseColor()
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		if !visible[face[0]] || !visible[face[1]] || !visible[face[2]] {
			r.Stats.FacesSkipped++
			continue
		}
		r.DrawTriangle(projected[face[0]], projected[face[1]], projected[face[2]], shader, base)
		r.Stats.FacesDrawn++
	}
	r.Stats.Meshes++
}
