package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/scanline/internal/logging"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

func newViewCmd(global *globalOptions) *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "view [scene]",
		Short: "View the scene live in the terminal",
		Long: "View renders the scene into the terminal with half-block characters.\n\n" +
			"Controls:\n" +
			"  s           cycle shading (flat, gouraud, phong)\n" +
			"  i           toggle illumination (phong, blinn)\n" +
			"  c           cycle camera (static, follow, object)\n" +
			"  left/right  orbit the static camera\n" +
			"  up/down +/- zoom\n" +
			"  w           toggle wireframe overlay\n" +
			"  l           toggle light markers\n" +
			"  space       pause animation\n" +
			"  ?           toggle HUD\n" +
			"  q/esc       quit",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sceneArg(args)
			cfg, baseDir, err := loadConfig(path, global)
			if err != nil {
				return err
			}
			if fps > 0 {
				cfg.Render.FPS = fps
			}

			// The terminal owns stderr while viewing; only a log file gets logs.
			logger := logging.Discard()
			if global.logFile != "" {
				l, closeLog, err := newLogger(cfg, global, nil)
				if err != nil {
					return err
				}
				defer closeLog()
				logger = l
			}

			s, err := scene.New(cfg, baseDir)
			if err != nil {
				return err
			}
			title := "built-in scene"
			if path != "" {
				title = filepath.Base(path)
			}
			return runViewer(cmd.Context(), newViewer(s, title), cfg.Render.FPS, logger)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 0, "target frames per second (default from the scene)")
	return cmd
}

// action is a viewer command decoded from a key press.
type action int

const (
	actNone action = iota
	actQuit
	actShading
	actIllumination
	actCamera
	actOrbitLeft
	actOrbitRight
	actZoomIn
	actZoomOut
	actWireframe
	actLights
	actPause
	actHUD
)

const (
	orbitStep = math.Pi / 36
	zoomStep  = 2.0
)

// keyAction maps a key press to its action.
func keyAction(ev uv.KeyPressEvent) action {
	switch {
	case ev.MatchString("q", "escape", "ctrl+c"):
		return actQuit
	case ev.MatchString("s"):
		return actShading
	case ev.MatchString("i"):
		return actIllumination
	case ev.MatchString("c"):
		return actCamera
	case ev.MatchString("left", "a"):
		return actOrbitLeft
	case ev.MatchString("right", "d"):
		return actOrbitRight
	case ev.MatchString("up", "+", "="):
		return actZoomIn
	case ev.MatchString("down", "-", "_"):
		return actZoomOut
	case ev.MatchString("w"):
		return actWireframe
	case ev.MatchString("l"):
		return actLights
	case ev.MatchString("space"):
		return actPause
	case ev.MatchString("?", "shift+/"):
		return actHUD
	}
	return actNone
}

// viewer holds the interactive state. Only the render loop goroutine
// touches it.
type viewer struct {
	scene     *scene.Scene
	title     string
	wireframe bool
	lights    bool
	paused    bool
	showHUD   bool
	fps       fpsCounter
}

func newViewer(s *scene.Scene, title string) *viewer {
	return &viewer{
		scene:   s,
		title:   title,
		showHUD: true,
		fps:     fpsCounter{since: time.Now()},
	}
}

// apply performs a and reports whether the viewer should quit.
func (v *viewer) apply(a action) bool {
	s := v.scene
	switch a {
	case actQuit:
		return true
	case actShading:
		s.Shading = s.Shading.Next()
	case actIllumination:
		s.Illumination = s.Illumination.Next()
	case actCamera:
		s.Rig.Mode = s.Rig.Mode.Next()
	case actOrbitLeft:
		s.Rig.Base.Orbit(-orbitStep)
	case actOrbitRight:
		s.Rig.Base.Orbit(orbitStep)
	case actZoomIn:
		s.Rig.Base.MoveForward(zoomStep)
	case actZoomOut:
		s.Rig.Base.MoveForward(-zoomStep)
	case actWireframe:
		v.wireframe = !v.wireframe
	case actLights:
		v.lights = !v.lights
	case actPause:
		v.paused = !v.paused
	case actHUD:
		v.showHUD = !v.showHUD
	}
	return false
}

// frame steps the scene and draws it with the enabled overlays.
func (v *viewer) frame(r *render.Rasterizer) error {
	if !v.paused {
		v.scene.Step()
	}
	f := v.scene.Frame()
	if err := r.RenderFrame(f); err != nil {
		return err
	}
	if !v.wireframe && !v.lights {
		return nil
	}

	wf, err := render.NewWireframe(r.Framebuffer(), &f.Camera)
	if err != nil {
		return err
	}
	if v.wireframe {
		for _, m := range f.Meshes {
			wf.DrawMesh(m, render.RGB(0, 255, 128))
		}
	}
	if v.lights {
		for _, l := range f.Lights {
			wf.DrawLight(l, 2, render.RGB(255, 255, 0))
		}
		wf.DrawAxes(5)
	}
	return nil
}

var hudStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#e0e0e0")).
	Background(lipgloss.Color("#202028"))

var hudAccent = hudStyle.Foreground(lipgloss.Color("#5fd787")).Bold(true)

// hud returns the status line.
func (v *viewer) hud() string {
	s := v.scene
	state := ""
	if v.paused {
		state = " paused"
	}
	return hudAccent.Render(fmt.Sprintf(" %.0f FPS ", v.fps.rate)) +
		hudStyle.Render(fmt.Sprintf(" %s | %d tris | shading %s | illumination %s | camera %s%s ",
			v.title, s.TriangleCount(), s.Shading, s.Illumination, s.Rig.Mode, state))
}

// fpsCounter measures frames per second over one second windows.
type fpsCounter struct {
	rate   float64
	frames int
	since  time.Time
}

func (c *fpsCounter) tick(now time.Time) {
	c.frames++
	if elapsed := now.Sub(c.since); elapsed >= time.Second {
		c.rate = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = now
	}
}

// runViewer drives the terminal until the user quits or ctx ends. Input is
// read on its own goroutine and handed to the render loop over a channel.
func runViewer(ctx context.Context, v *viewer, fps int, logger *log.Logger) error {
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan uv.Event)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	fb, r := newTarget(width, height)
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb, r = newTarget(width, height)
			case uv.KeyPressEvent:
				if v.apply(keyAction(ev)) {
					return nil
				}
			}

		case now := <-ticker.C:
			if err := v.frame(r); err != nil {
				logger.Warn("frame skipped", "err", err)
			} else {
				logger.Debug("frame rendered",
					"faces", r.Stats.FacesDrawn,
					"skipped", r.Stats.FacesSkipped,
					"pixels", r.Stats.PixelsWritten,
				)
			}
			v.fps.tick(now)

			fb.Draw(term, uv.Rect(0, 0, width, height-1))
			status := ""
			if v.showHUD {
				status = v.hud()
			}
			if pad := width - lipgloss.Width(status); pad > 0 {
				status += strings.Repeat(" ", pad)
			}
			uv.NewStyledString(status).Draw(term, uv.Rect(0, height-1, width, 1))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// newTarget sizes a framebuffer to the terminal, two pixel rows per cell,
// keeping the last row for the HUD.
func newTarget(width, height int) (*render.Framebuffer, *render.Rasterizer) {
	fb := render.NewFramebuffer(max(width, 1), max(height-1, 1)*2)
	return fb, render.NewRasterizer(fb)
}
