package render

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"
)

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(7, 5) // odd size exercises the doubling tail
	fb.Clear(ColorSky)
	for i, c := range fb.Pixels {
		if c != ColorSky {
			t.Fatalf("pixel %d = %v", i, c)
		}
	}
}

func TestFramebufferPixelBounds(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(-1, 2, ColorWhite)
	fb.SetPixel(4, 0, ColorWhite)
	if countTouched(fb) != 0 {
		t.Error("out of bounds SetPixel wrote a pixel")
	}
	if c := fb.GetPixel(9, 9); c.A != 0 {
		t.Errorf("out of bounds GetPixel = %v", c)
	}
}

func TestToImageFlipsRows(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(0, 0, RGB(255, 0, 0)) // bottom row
	fb.SetPixel(2, 1, RGB(0, 255, 0)) // top row

	img := fb.ToImage()
	if got := img.RGBAAt(0, 1); got != RGB(255, 0, 0) {
		t.Errorf("framebuffer row 0 should be the last image row, got %v", got)
	}
	if got := img.RGBAAt(2, 0); got != RGB(0, 255, 0) {
		t.Errorf("framebuffer top row should be image row 0, got %v", got)
	}
}

func TestWritePNGScale(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.Clear(ColorBlack)
	fb.SetPixel(3, 1, ColorWhite)

	tests := []struct {
		scale, wantW, wantH int
	}{
		{0, 4, 2},
		{1, 4, 2},
		{3, 12, 6},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		if err := fb.WritePNG(&buf, tc.scale); err != nil {
			t.Fatalf("WritePNG(%d): %v", tc.scale, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
			t.Errorf("scale %d: size %dx%d, want %dx%d", tc.scale, b.Dx(), b.Dy(), tc.wantW, tc.wantH)
		}
		// The white pixel is top-right and keeps its block when scaled.
		s := max(tc.scale, 1)
		if r, _, _, _ := img.At(b.Max.X-1, 0).RGBA(); r != 0xffff {
			t.Errorf("scale %d: top-right pixel not white", tc.scale)
		}
		if r, _, _, _ := img.At(b.Max.X-s-1, s).RGBA(); r != 0 {
			t.Errorf("scale %d: pixel left of the block not black", tc.scale)
		}
	}
}

func TestSavePNG(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(ColorGray)
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "frame.png"), 2); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png"), 1); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(0, 0, 9, 9, ColorWhite)
	for i := range 10 {
		if fb.GetPixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel %d not drawn", i)
		}
	}
	if countTouched(fb) != 10 {
		t.Errorf("diagonal touched %d pixels", countTouched(fb))
	}
}
