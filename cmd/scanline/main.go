// scanline - software 3D rasterizer
// Renders scene files to PNG frames or live in the terminal.
//
// Usage:
//
//	scanline render [scene.toml|scene.yaml] -o frame.png
//	scanline view [scene.toml|scene.yaml]
//	scanline init scene.toml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/scanline/internal/logging"
	"github.com/taigrr/scanline/pkg/scene"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command. Set flags override
// the scene file.
type globalOptions struct {
	logLevel string
	logFile  string
	scene.Overrides
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "scanline",
		Short: "Software 3D rasterizer",
		Long: "scanline renders triangle meshes with a scanline rasterizer, a depth buffer\n" +
			"and flat, Gouraud or Phong shading. Scenes are TOML or YAML files; without\n" +
			"one the built-in terrain and train scene is used.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	pf.IntVar(&opts.Width, "width", 0, "framebuffer width in pixels")
	pf.IntVar(&opts.Height, "height", 0, "framebuffer height in pixels")
	pf.StringVar(&opts.Shading, "shading", "", "shading mode (flat, gouraud, phong)")
	pf.StringVar(&opts.Illumination, "illumination", "", "illumination model (phong, blinn)")
	pf.StringVar(&opts.Camera, "camera", "", "camera mode (static, follow, object)")

	root.AddCommand(
		newRenderCmd(opts),
		newViewCmd(opts),
		newInitCmd(),
	)
	return root
}

// loadConfig reads the scene file at path, or the built-in scene when path
// is empty, and applies the command line overrides. It returns the
// directory mesh paths are relative to.
func loadConfig(path string, opts *globalOptions) (*scene.Config, string, error) {
	cfg := scene.Default()
	baseDir := "."
	if path != "" {
		var err error
		if cfg, err = scene.Load(path); err != nil {
			return nil, "", err
		}
		baseDir = filepath.Dir(path)
	}

	o := opts.Overrides
	o.LogLevel = opts.logLevel
	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, baseDir, nil
}

// newLogger builds the logger for cfg. Logs go to the log file when one is
// set, otherwise to fallback. The returned closer releases the file.
func newLogger(cfg *scene.Config, opts *globalOptions, fallback io.Writer) (*log.Logger, func() error, error) {
	out := fallback
	closer := func() error { return nil }
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f.Close
	}
	logger, err := logging.New(out, cfg.Render.LogLevel)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return logger, closer, nil
}

func sceneArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init <scene.toml|scene.yaml>",
		Short: "Write the built-in scene to a file as a starting point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			}
			if err := scene.Default().SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
