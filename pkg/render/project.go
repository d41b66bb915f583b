package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// ProjectedVertex is a mesh vertex after the per-frame transforms.
type ProjectedVertex struct {
	Screen math3d.Vec3 // pixel x, pixel y, NDC depth (smaller is nearer)
	World  math3d.Vec3 // position in world space
	Normal math3d.Vec3 // normal in world space, not renormalized
}

// Project maps a local-space vertex through transform (projection·view·world)
// to screen space, and through world for lighting. ok is false when the
// homogeneous w is zero or the result is not finite; the caller skips the
// face.
func Project(pos, normal math3d.Vec3, transform, world math3d.Mat4, width, height int) (pv ProjectedVertex, ok bool) {
	ndc, ok := transform.MulVec4(math3d.Point(pos)).PerspectiveDivide()
	if !ok {
		return ProjectedVertex{}, false
	}

	pv.Screen = math3d.Vec3{
		X: (ndc.X + 1) / 2 * float64(width),
		Y: (ndc.Y + 1) / 2 * float64(height),
		Z: ndc.Z,
	}
	pv.World = world.MulVec3(pos)
	pv.Normal = world.MulVec3Dir(normal)
	if !pv.World.IsFinite() || !pv.Normal.IsFinite() {
		return ProjectedVertex{}, false
	}
	return pv, true
}
