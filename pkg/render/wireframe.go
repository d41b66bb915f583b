package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Wireframe draws line overlays on top of a rendered frame. Lines ignore
// the depth buffer.
type Wireframe struct {
	fb       *Framebuffer
	viewProj math3d.Mat4
}

// NewWireframe creates an overlay drawer for the camera's current view.
func NewWireframe(fb *Framebuffer, camera *Camera) (*Wireframe, error) {
	view, err := camera.ViewMatrix()
	if err != nil {
		return nil, err
	}
	aspect := 1.0
	if fb.Height > 0 {
		aspect = float64(fb.Width) / float64(fb.Height)
	}
	return &Wireframe{
		fb:       fb,
		viewProj: camera.ProjectionMatrix(aspect).Mul(view),
	}, nil
}

// toScreen projects a world point. Points behind the camera or far off
// screen are rejected so line drawing stays bounded.
func (w *Wireframe) toScreen(p math3d.Vec3) (x, y int, ok bool) {
	clip := w.viewProj.MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return 0, 0, false
	}
	ndc, ok := clip.PerspectiveDivide()
	if !ok || math.Abs(ndc.X) > 4 || math.Abs(ndc.Y) > 4 {
		return 0, 0, false
	}
	x = int((ndc.X + 1) / 2 * float64(w.fb.Width))
	y = int((ndc.Y + 1) / 2 * float64(w.fb.Height))
	return x, y, true
}

// DrawLine3D draws a line between two world points. The line is dropped
// unless both ends project.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, ok1 := w.toScreen(p1)
	x2, y2, ok2 := w.toScreen(p2)
	if !ok1 || !ok2 {
		return
	}
	w.fb.DrawLine(x1, y1, x2, y2, color)
}

// DrawMesh draws every triangle edge of mesh at its placement.
func (w *Wireframe) DrawMesh(mesh MeshRenderer, color Color) {
	pos, rot := mesh.Placement()
	world := math3d.WorldMatrix(pos, rot)

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var pts [3]math3d.Vec3
		for j, idx := range face {
			p, _ := mesh.GetVertex(idx)
			pts[j] = world.MulVec3(p)
		}
		w.DrawLine3D(pts[0], pts[1], color)
		w.DrawLine3D(pts[1], pts[2], color)
		w.DrawLine3D(pts[2], pts[0], color)
	}
}

// DrawLight marks a light with a cross; spot lights also get a line to their
// target.
func (w *Wireframe) DrawLight(light Light, size float64, color Color) {
	w.DrawPoint(light.Position, size, color)
	if light.Kind == SpotLight {
		w.DrawLine3D(light.Position, light.Target, color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), RGB(255, 0, 0))
	w.DrawLine3D(origin, math3d.V3(0, length, 0), RGB(0, 255, 0))
	w.DrawLine3D(origin, math3d.V3(0, 0, length), RGB(0, 0, 255))
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	h := size / 2
	w.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), color)
	w.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), color)
	w.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), color)
}
