package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

type renderOptions struct {
	out    string
	frames int
	scale  int
	watch  bool
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render frames to PNG files",
		Long: "Render renders the scene, stepping its animations between frames, and\n" +
			"writes one PNG per frame. With --watch it renders again whenever the\n" +
			"scene file changes.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sceneArg(args)
			if opts.watch && path == "" {
				return fmt.Errorf("--watch needs a scene file")
			}
			cfg, baseDir, err := loadConfig(path, global)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg, global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			if err := renderScene(cfg, baseDir, opts, logger); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return watchScene(cmd.Context(), path, global, opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "frame.png", "output file; frames after the first are numbered")
	f.IntVarP(&opts.frames, "frames", "n", 1, "number of frames to render")
	f.IntVar(&opts.scale, "scale", 1, "integer upscale factor for the PNG")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-render when the scene file changes")
	return cmd
}

// renderScene renders opts.frames frames of the scene described by cfg.
// A frame that cannot be rendered is logged and skipped.
func renderScene(cfg *scene.Config, baseDir string, opts *renderOptions, logger *log.Logger) error {
	s, err := scene.New(cfg, baseDir)
	if err != nil {
		return err
	}
	logger.Info("scene loaded",
		"meshes", len(s.Meshes),
		"triangles", s.TriangleCount(),
		"lights", len(s.Lights),
		"shading", s.Shading,
		"illumination", s.Illumination,
	)

	fb := render.NewFramebuffer(cfg.Render.Width, cfg.Render.Height)
	r := render.NewRasterizer(fb)
	frames := max(opts.frames, 1)

	for i := range frames {
		if i > 0 {
			s.Step()
		}
		start := time.Now()
		if err := r.RenderFrame(s.Frame()); err != nil {
			logger.Warn("frame skipped", "frame", i, "err", err)
			continue
		}
		logger.Debug("frame rendered",
			"frame", i,
			"elapsed", time.Since(start),
			"faces", r.Stats.FacesDrawn,
			"skipped", r.Stats.FacesSkipped,
			"pixels", r.Stats.PixelsWritten,
		)

		name := frameName(opts.out, i, frames)
		if err := fb.SavePNG(name, opts.scale); err != nil {
			return err
		}
		logger.Info("wrote frame", "file", name)
	}
	return nil
}

// frameName numbers the output for multi-frame renders: frame.png becomes
// frame-0000.png, frame-0001.png and so on. A single frame keeps the name.
func frameName(out string, i, total int) string {
	if total <= 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%04d%s", strings.TrimSuffix(out, ext), i, ext)
}

// watchScene re-renders whenever the scene file changes, until ctx ends.
// A broken edit is logged and the previous output is kept.
func watchScene(ctx context.Context, path string, global *globalOptions, opts *renderOptions, logger *log.Logger) error {
	w, err := scene.NewWatcher(path)
	if err != nil {
		return err
	}
	defer w.Close()
	logger.Info("watching for changes", "file", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			logger.Error("watch", "err", err)
		case <-w.Changes():
			cfg, baseDir, err := loadConfig(path, global)
			if err != nil {
				logger.Error("reload failed", "err", err)
				continue
			}
			if level, err := log.ParseLevel(cfg.Render.LogLevel); err == nil {
				logger.SetLevel(level)
			}
			if err := renderScene(cfg, baseDir, opts, logger); err != nil {
				logger.Error("render failed", "err", err)
			}
		}
	}
}
