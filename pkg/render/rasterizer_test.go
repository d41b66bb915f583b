package render

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/taigrr/scanline/pkg/math3d"
)

// createTestRasterizer creates a rasterizer over a framebuffer cleared to
// transparent black, so touched pixels are the ones with non-zero alpha.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	return NewRasterizer(fb), fb
}

// sv builds a vertex that only carries a screen position.
func sv(x, y, z float64) ProjectedVertex {
	return ProjectedVertex{Screen: math3d.V3(x, y, z)}
}

func countTouched(fb *Framebuffer) int {
	n := 0
	for _, c := range fb.Pixels {
		if c.A != 0 {
			n++
		}
	}
	return n
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	r.putPixel(5, 5, 1.0, ColorWhite)
	if r.getDepth(5, 5) != 1.0 {
		t.Error("putPixel did not store depth")
	}

	r.ClearDepth()
	if r.getDepth(5, 5) != math.MaxFloat64 {
		t.Error("ClearDepth should reset to MaxFloat64")
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, fb := createTestRasterizer(10, 10)

	// Out of bounds should return MaxFloat64 and not panic
	if r.getDepth(-1, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}
	if r.getDepth(100, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}

	for _, p := range [][2]int{{-1, 0}, {10, 0}, {0, -1}, {0, 10}} {
		r.putPixel(p[0], p[1], 0, ColorWhite)
	}
	if countTouched(fb) != 0 || r.Stats.PixelsWritten != 0 {
		t.Error("out of bounds putPixel wrote a pixel")
	}
}

func TestPutPixelTies(t *testing.T) {
	r, fb := createTestRasterizer(4, 4)
	r.putPixel(1, 1, 0.5, RGB(255, 0, 0))
	r.putPixel(1, 1, 0.5, RGB(0, 0, 255))
	if got := fb.GetPixel(1, 1); got != RGB(0, 0, 255) {
		t.Errorf("equal depth: got %v, want last writer", got)
	}
	r.putPixel(1, 1, 0.6, RGB(0, 255, 0))
	if got := fb.GetPixel(1, 1); got != RGB(0, 0, 255) {
		t.Errorf("farther fragment overwrote nearer one: %v", got)
	}
}

func TestDrawTriangleFlatScenario(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	r.DrawTriangle(sv(10, 10, 0), sv(50, 10, 0), sv(30, 50, 0), ConstantShader(0.5), ColorWhite)

	want := color.RGBA{128, 128, 128, 255}
	left := func(y float64) float64 { return 10 + 0.5*(y-10) }
	right := func(y float64) float64 { return 50 - 0.5*(y-10) }

	touched := 0
	for y := range fb.Height {
		for x := range fb.Width {
			c := fb.GetPixel(x, y)
			if c.A == 0 {
				continue
			}
			touched++
			if c != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, c, want)
			}
			fy, fx := float64(y), float64(x)
			// Span starts are truncated, so allow one pixel on the left.
			if fy < 10 || fy > 50 || fx < left(fy)-1 || fx > right(fy) {
				t.Fatalf("pixel (%d,%d) outside the triangle", x, y)
			}
		}
	}
	if touched == 0 {
		t.Fatal("triangle drew nothing")
	}
	if touched != r.Stats.PixelsWritten {
		t.Errorf("PixelsWritten = %d, touched = %d", r.Stats.PixelsWritten, touched)
	}

	// The interior is fully covered.
	for y := 11; y <= 48; y++ {
		fy := float64(y)
		for x := int(math.Ceil(left(fy))) + 1; x <= int(math.Floor(right(fy)))-1; x++ {
			if fb.GetPixel(x, y).A == 0 {
				t.Fatalf("interior pixel (%d,%d) not drawn", x, y)
			}
		}
	}
}

func TestDrawTriangleVertexOrder(t *testing.T) {
	// Every permutation of the same triangle covers the same pixels.
	verts := [3]ProjectedVertex{sv(5, 3, 0), sv(27, 11, 0), sv(12, 29, 0)}
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	var reference []color.RGBA
	for _, p := range perms {
		r, fb := createTestRasterizer(32, 32)
		r.DrawTriangle(verts[p[0]], verts[p[1]], verts[p[2]], ConstantShader(1), ColorWhite)
		if reference == nil {
			reference = fb.Pixels
			if countTouched(fb) == 0 {
				t.Fatal("triangle drew nothing")
			}
			continue
		}
		for i := range fb.Pixels {
			if fb.Pixels[i] != reference[i] {
				t.Fatalf("permutation %v differs at pixel %d", p, i)
			}
		}
	}
}

func TestDegenerateTriangle(t *testing.T) {
	tests := []struct {
		name       string
		v1, v2, v3 ProjectedVertex
	}{
		{"horizontal line", sv(5, 10, 0), sv(20, 10, 0), sv(30, 10, 0)},
		{"single point", sv(7, 7, 0), sv(7, 7, 0), sv(7, 7, 0)},
		{"fractional row", sv(1.5, 3.25, 0), sv(9, 3.25, 0), sv(4, 3.25, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(32, 32)
			r.DrawTriangle(tc.v1, tc.v2, tc.v3, ConstantShader(1), ColorWhite)
			if n := countTouched(fb); n != 0 {
				t.Errorf("degenerate triangle drew %d pixels", n)
			}
		})
	}
}

// finishesWithin fails the test if fn has not returned after d.
func finishesWithin(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("still running after %v", d)
	}
}

func TestDrawTriangleOffscreen(t *testing.T) {
	tests := []struct {
		name       string
		v1, v2, v3 ProjectedVertex
		want       int
	}{
		{"covering", sv(-1e9, -1e9, 0), sv(1e9, -1e9, 0), sv(0, 1e9, 0), 16 * 16},
		{"covering past int range", sv(-1e20, -1e20, 0), sv(1e20, -1e20, 0), sv(0, 1e20, 0), 16 * 16},
		{"huge x", sv(1e20, 0, 0), sv(2e20, 0, 0), sv(1e20, 10, 0), 0},
		{"huge negative x", sv(-1e20, 0, 0), sv(-2e20, 0, 0), sv(-1e20, 10, 0), 0},
		{"huge y", sv(0, 1e20, 0), sv(10, 1e20, 0), sv(5, 2e20, 0), 0},
		{"huge negative y", sv(0, -1e20, 0), sv(10, -1e20, 0), sv(5, -2e20, 0), 0},
		{"fully off screen", sv(1e300, 1e300, 0), sv(-1e300, 1e300, 0), sv(0, 1e301, 0), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(16, 16)
			finishesWithin(t, 2*time.Second, func() {
				r.DrawTriangle(tc.v1, tc.v2, tc.v3, ConstantShader(1), ColorWhite)
			})
			if n := countTouched(fb); n != tc.want {
				t.Errorf("touched %d pixels, want %d", n, tc.want)
			}
		})
	}
}

func TestDepthOrderIndependence(t *testing.T) {
	red := RGB(255, 0, 0)
	blue := RGB(0, 0, 255)
	far := [3]ProjectedVertex{sv(0, 0, 0.5), sv(40, 0, 0.5), sv(20, 40, 0.5)}
	near := [3]ProjectedVertex{sv(5, 5, 0.2), sv(35, 5, 0.2), sv(20, 35, 0.2)}

	draw := func(r *Rasterizer, tri [3]ProjectedVertex, c Color) {
		r.DrawTriangle(tri[0], tri[1], tri[2], ConstantShader(1), c)
	}

	r1, fb1 := createTestRasterizer(40, 40)
	draw(r1, far, red)
	draw(r1, near, blue)

	r2, fb2 := createTestRasterizer(40, 40)
	draw(r2, near, blue)
	draw(r2, far, red)

	if got := fb1.GetPixel(20, 20); got != blue {
		t.Errorf("far then near: pixel = %v, want blue", got)
	}
	for i := range fb1.Pixels {
		if fb1.Pixels[i] != fb2.Pixels[i] {
			t.Fatalf("draw order changed pixel %d: %v vs %v", i, fb1.Pixels[i], fb2.Pixels[i])
		}
	}
}

func TestDepthQuadsBackFrontBack(t *testing.T) {
	r, fb := createTestRasterizer(50, 50)
	back := RGB(255, 0, 0)
	front := RGB(0, 255, 0)

	quad := func(z float64, c Color) {
		a, b, cc, d := sv(10, 10, z), sv(40, 10, z), sv(40, 40, z), sv(10, 40, z)
		r.DrawTriangle(a, b, cc, ConstantShader(1), c)
		r.DrawTriangle(a, cc, d, ConstantShader(1), c)
	}
	quad(0.8, back)
	quad(0.3, front)
	quad(0.8, back)

	greens := 0
	for i, c := range fb.Pixels {
		if c == back {
			t.Fatalf("back quad visible at pixel %d", i)
		}
		if c == front {
			greens++
		}
	}
	if greens == 0 {
		t.Fatal("front quad not drawn")
	}
}

func TestGouraudPhongEquivalence(t *testing.T) {
	// A small planar triangle with one normal, rasterized with both modes.
	normal := math3d.V3(0, 0, 1)
	tri := [3]ProjectedVertex{
		{Screen: math3d.V3(4, 4, 0.5), World: math3d.V3(0, 0, 0), Normal: normal},
		{Screen: math3d.V3(60, 8, 0.5), World: math3d.V3(1, 0, 0), Normal: normal},
		{Screen: math3d.V3(20, 60, 0.5), World: math3d.V3(0, 1, 0), Normal: normal},
	}

	tests := []struct {
		name      string
		lights    []Light
		tolerance int
	}{
		{"ambient only", nil, 0},
		{"distant point light", []Light{NewPointLight(math3d.V3(0.3, 0.3, 30))}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lighting := Lighting{Lights: tc.lights, Eye: math3d.V3(0.3, 0.3, 10), Model: PhongIllumination}

			rg, fbg := createTestRasterizer(64, 64)
			rg.DrawTriangle(tri[0], tri[1], tri[2], NewShader(GouraudShading, lighting), ColorWhite)
			rp, fbp := createTestRasterizer(64, 64)
			rp.DrawTriangle(tri[0], tri[1], tri[2], NewShader(PhongShading, lighting), ColorWhite)

			if countTouched(fbg) == 0 {
				t.Fatal("nothing drawn")
			}
			for i := range fbg.Pixels {
				g, p := fbg.Pixels[i], fbp.Pixels[i]
				if absInt(int(g.R)-int(p.R)) > tc.tolerance {
					t.Fatalf("pixel %d: gouraud %v phong %v", i, g, p)
				}
			}
		})
	}
}

func TestGouraudInterpolatesIntensity(t *testing.T) {
	// Intensity 0 at the bottom edge, 1 at the apex: rows get brighter.
	var samples constShader
	samples.samples = [3]Sample{{Intensity: 0}, {Intensity: 0}, {Intensity: 1}}

	r, fb := createTestRasterizer(40, 40)
	r.DrawTriangle(sv(0, 0, 0), sv(39, 0, 0), sv(20, 39, 0), samples, ColorWhite)

	low := fb.GetPixel(20, 2).R
	high := fb.GetPixel(20, 30).R
	if low >= high {
		t.Errorf("intensity not interpolated upward: row 2 = %d, row 30 = %d", low, high)
	}
}

// constShader returns fixed samples and shades by the interpolated
// intensity.
type constShader struct {
	samples [3]Sample
}

func (s constShader) Prepare([3]ProjectedVertex) [3]Sample { return s.samples }
func (constShader) Shade(smp Sample) float64               { return smp.Intensity }

func TestDrawMeshSkipsUnprojectable(t *testing.T) {
	// FixedPerspective has w = -z_view; a vertex on the camera plane has w = 0.
	cam := NewCamera(math3d.V3(0, 0, 10), math3d.Zero3())
	view, err := cam.ViewMatrix()
	if err != nil {
		t.Fatal(err)
	}
	mesh := &mockMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(0, 1, 0),
			math3d.V3(1, 0, 10),
		},
		faces: [][3]int{{0, 1, 2}, {0, 1, 3}},
	}

	r, _ := createTestRasterizer(32, 32)
	r.DrawMesh(mesh, cam.ProjectionMatrix(1).Mul(view), ConstantShader(1))
	if r.Stats.FacesDrawn != 1 || r.Stats.FacesSkipped != 1 || r.Stats.Meshes != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func BenchmarkDrawTriangle(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	lighting := Lighting{
		Lights: []Light{NewPointLight(math3d.V3(10, 10, -15))},
		Eye:    math3d.V3(0, 0, 10),
	}
	v := [3]ProjectedVertex{
		{Screen: math3d.V3(10, 10, 0.5), World: math3d.V3(-5, -5, 0), Normal: math3d.V3(0, 0, 1)},
		{Screen: math3d.V3(190, 40, 0.5), World: math3d.V3(5, -5, 0), Normal: math3d.V3(0, 0, 1)},
		{Screen: math3d.V3(90, 190, 0.5), World: math3d.V3(0, 5, 0), Normal: math3d.V3(0, 0, 1)},
	}

	for _, mode := range []ShadingMode{FlatShading, GouraudShading, PhongShading} {
		shader := NewShader(mode, lighting)
		b.Run(mode.String(), func(b *testing.B) {
			for b.Loop() {
				r.ClearDepth()
				r.DrawTriangle(v[0], v[1], v[2], shader, ColorWhite)
			}
		})
	}
}
