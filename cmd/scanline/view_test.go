package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

func testViewer(t *testing.T) *viewer {
	t.Helper()
	cfg := scene.Default()
	cfg.Render.Width, cfg.Render.Height = 40, 30
	s, err := scene.New(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	return newViewer(s, "test")
}

func TestViewerApply(t *testing.T) {
	v := testViewer(t)
	s := v.scene

	if v.apply(actShading) || s.Shading != render.PhongShading {
		t.Errorf("shading = %v, want phong after gouraud", s.Shading)
	}
	v.apply(actIllumination)
	if s.Illumination != render.BlinnIllumination {
		t.Errorf("illumination = %v", s.Illumination)
	}
	v.apply(actCamera)
	if s.Rig.Mode != scene.FollowCamera {
		t.Errorf("camera = %v", s.Rig.Mode)
	}

	dist := s.Rig.Base.Position.Distance(s.Rig.Base.Target)
	v.apply(actOrbitLeft)
	if d := s.Rig.Base.Position.Distance(s.Rig.Base.Target); math.Abs(d-dist) > 1e-9 {
		t.Errorf("orbit changed distance %v -> %v", dist, d)
	}
	v.apply(actZoomIn)
	if d := s.Rig.Base.Position.Distance(s.Rig.Base.Target); math.Abs(d-(dist-zoomStep)) > 1e-9 {
		t.Errorf("zoom in: distance %v, want %v", d, dist-zoomStep)
	}
	v.apply(actZoomOut)
	if d := s.Rig.Base.Position.Distance(s.Rig.Base.Target); math.Abs(d-dist) > 1e-9 {
		t.Errorf("zoom out: distance %v, want %v", d, dist)
	}

	for _, a := range []action{actWireframe, actLights, actPause, actHUD} {
		v.apply(a)
	}
	if !v.wireframe || !v.lights || !v.paused || v.showHUD {
		t.Errorf("toggles = %+v", v)
	}
	if !v.apply(actQuit) {
		t.Error("quit not reported")
	}
}

func TestViewerFrame(t *testing.T) {
	v := testViewer(t)
	fb, r := newTarget(40, 16)
	if fb.Height != 30 {
		t.Fatalf("framebuffer height = %d, want 30", fb.Height)
	}

	if err := v.frame(r); err != nil {
		t.Fatalf("frame: %v", err)
	}
	plain := append([]render.Color(nil), fb.Pixels...)

	// Paused frames do not move the train.
	v.paused = true
	train := v.scene.Mesh("train")
	pos := train.Position
	v.wireframe, v.lights = true, true
	if err := v.frame(r); err != nil {
		t.Fatalf("frame with overlays: %v", err)
	}
	if train.Position != pos {
		t.Error("paused viewer stepped the scene")
	}

	changed := 0
	for i, c := range fb.Pixels {
		if c != plain[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("overlays drew nothing")
	}
}

func TestViewerHUD(t *testing.T) {
	v := testViewer(t)
	v.paused = true
	hud := v.hud()
	for _, want := range []string{"test", "gouraud", "phong", "static", "paused"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
}

func TestFPSCounter(t *testing.T) {
	start := time.Now()
	c := fpsCounter{since: start}
	for i := 1; i <= 30; i++ {
		c.tick(start.Add(time.Duration(i) * time.Second / 30))
	}
	if math.Abs(c.rate-30) > 1e-9 {
		t.Errorf("rate = %v, want 30", c.rate)
	}
}
