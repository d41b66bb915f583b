package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Rasterizer fills triangles into a framebuffer with a per-pixel depth test.
// It owns the depth buffer, which is never exposed.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64  // Depth buffer (1D array, row-major)
	Stats   FrameStats // Counters for the current frame

	// Per-mesh scratch reused across frames
	projected []ProjectedVertex
	visible   []bool
}

// FrameStats counts the work done for one frame.
type FrameStats struct {
	Meshes        int // Meshes drawn
	FacesDrawn    int // Faces handed to DrawTriangle
	FacesSkipped  int // Faces with a vertex that failed to project
	PixelsWritten int // Fragments that passed the depth test
}

// corner pairs a projected position with its shading sample while the
// triangle's vertices are sorted.
type corner struct {
	p math3d.Vec3
	s Sample
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	r.ClearDepth()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Framebuffer returns the buffer being drawn into.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets every depth to the far sentinel (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetStats zeroes the frame counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = FrameStats{}
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// putPixel writes c at (x, y) unless a nearer fragment is already stored.
// Equal depths overwrite, so the last writer wins ties.
func (r *Rasterizer) putPixel(x, y int, z float64, c Color) {
	w := r.Width()
	if x < 0 || x >= w || y < 0 || y >= r.Height() {
		return
	}
	idx := y*w + x
	if r.zbuffer[idx] < z {
		return
	}
	r.zbuffer[idx] = z
	r.fb.Pixels[idx] = c
	r.Stats.PixelsWritten++
}

// DrawTriangle fills the triangle v1 v2 v3 scanline by scanline, shading
// each pixel with shader and scaling base by the resulting intensity.
// Triangles with no vertical extent draw nothing.
func (r *Rasterizer) DrawTriangle(v1, v2, v3 ProjectedVertex, shader Shader, base Color) {
	samples := shader.Prepare([3]ProjectedVertex{v1, v2, v3})
	c := [3]corner{
		{v1.Screen, samples[0]},
		{v2.Screen, samples[1]},
		{v3.Screen, samples[2]},
	}

	// Sort by y so that p1 is the lowest and p3 the highest.
	if c[0].p.Y > c[1].p.Y {
		c[0], c[1] = c[1], c[0]
	}
	if c[1].p.Y > c[2].p.Y {
		c[1], c[2] = c[2], c[1]
	}
	if c[0].p.Y > c[1].p.Y {
		c[0], c[1] = c[1], c[0]
	}
	p1, p2, p3 := c[0], c[1], c[2]

	if p1.p.Y == p3.p.Y {
		return
	}

	// Inverse slopes of the two edges leaving p1; 0 when horizontal.
	var d12, d13 float64
	if p2.p.Y-p1.p.Y > 0 {
		d12 = (p2.p.X - p1.p.X) / (p2.p.Y - p1.p.Y)
	}
	if p3.p.Y-p1.p.Y > 0 {
		d13 = (p3.p.X - p1.p.X) / (p3.p.Y - p1.p.Y)
	}

	// Rows and columns outside the buffer are no-ops, so the loops are
	// clamped to one past each border. Clamp before converting: projected
	// coordinates can exceed the int range.
	h := float64(r.Height())
	yStart := int(math.Floor(clampRange(p1.p.Y, -1, h)))
	yEnd := int(math.Floor(clampRange(p3.p.Y, -1, h)))
	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)
		if d12 > d13 {
			// p2 lies right of p1p3
			if fy < p2.p.Y {
				r.scanLine(y, p1, p3, p1, p2, shader, base)
			} else {
				r.scanLine(y, p1, p3, p2, p3, shader, base)
			}
		} else {
			if fy < p2.p.Y {
				r.scanLine(y, p1, p2, p1, p3, shader, base)
			} else {
				r.scanLine(y, p2, p3, p1, p3, shader, base)
			}
		}
	}
}

// scanLine draws row y between edge ab and edge cd.
func (r *Rasterizer) scanLine(y int, a, b, c, d corner, shader Shader, base Color) {
	if y < 0 || y >= r.Height() {
		return
	}
	fy := float64(y)
	g1 := edgeGradient(fy, a.p, b.p)
	g2 := edgeGradient(fy, c.p, d.p)

	sx := interpolate(a.p.X, b.p.X, g1)
	ex := interpolate(c.p.X, d.p.X, g2)
	z1 := interpolate(a.p.Z, b.p.Z, g1)
	z2 := interpolate(c.p.Z, d.p.Z, g2)
	s1 := a.s.Lerp(b.s, g1)
	s2 := c.s.Lerp(d.s, g2)

	// A flat top or bottom can hand the edges over in either order.
	if sx > ex {
		sx, ex = ex, sx
		z1, z2 = z2, z1
		s1, s2 = s2, s1
	}

	span := ex - sx
	w := float64(r.Width() + 1)
	xStart := int(clampRange(sx, -1, w))
	xEnd := int(clampRange(ex, -1, w))
	for x := xStart; x < xEnd; x++ {
		t := clamp01((float64(x) - sx) / span)
		z := interpolate(z1, z2, t)
		intensity := shader.Shade(s1.Lerp(s2, t))
		r.putPixel(x, y, z, MultiplyColor(base, intensity))
	}
}

// edgeGradient is how far along the edge start→end row y lies, in [0, 1].
// Horizontal edges report 1.
func edgeGradient(y float64, start, end math3d.Vec3) float64 {
	if start.Y == end.Y {
		return 1
	}
	return clamp01((y - start.Y) / (end.Y - start.Y))
}

func interpolate(lo, hi, t float64) float64 {
	return lo + (hi-lo)*t
}

func clampRange(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
