package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	// ErrUnsupportedFormat is returned for scene or mesh files whose
	// extension has no decoder.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnknownMesh is returned when the camera subject names a mesh the
	// scene does not contain.
	ErrUnknownMesh = errors.New("unknown mesh")

	// ErrUnknownPrimitive is returned for a mesh entry with an unknown
	// primitive name.
	ErrUnknownPrimitive = errors.New("unknown primitive")
)

// Format is a scene file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Config describes a scene: render settings, camera rig, lights and meshes.
// Angles are in degrees and colors are hex strings.
type Config struct {
	Render RenderConfig  `toml:"render" yaml:"render"`
	Camera CameraConfig  `toml:"camera" yaml:"camera"`
	Lights []LightConfig `toml:"lights" yaml:"lights"`
	Meshes []MeshConfig  `toml:"meshes" yaml:"meshes"`
}

// RenderConfig holds frame-level settings.
type RenderConfig struct {
	Width        int    `toml:"width" yaml:"width"`
	Height       int    `toml:"height" yaml:"height"`
	Shading      string `toml:"shading" yaml:"shading"`
	Illumination string `toml:"illumination" yaml:"illumination"`
	Background   string `toml:"background" yaml:"background"`
	FPS          int    `toml:"fps" yaml:"fps"` // Animation step rate
	LogLevel     string `toml:"log_level" yaml:"log_level"`
}

// CameraConfig describes the camera rig.
type CameraConfig struct {
	Mode     string  `toml:"mode" yaml:"mode"` // static, follow or object
	Position Vec     `toml:"position,inline" yaml:"position"`
	Target   Vec     `toml:"target,inline" yaml:"target"`
	Subject  string  `toml:"subject" yaml:"subject"` // Mesh tracked by follow and object modes
	Height   float64 `toml:"height" yaml:"height"`   // Object camera height above the subject
	FOV      float64 `toml:"fov" yaml:"fov"`         // Degrees; 0 selects the fixed projection
}

// LightConfig describes one light.
type LightConfig struct {
	Kind     string `toml:"kind" yaml:"kind"` // point or spot
	Position Vec    `toml:"position,inline" yaml:"position"`
	Target   Vec    `toml:"target,inline" yaml:"target"`
}

// MeshConfig describes a mesh loaded from a file or built from a primitive.
type MeshConfig struct {
	Name      string  `toml:"name" yaml:"name"`
	File      string  `toml:"file,omitempty" yaml:"file,omitempty"`
	Primitive string  `toml:"primitive,omitempty" yaml:"primitive,omitempty"` // cube, plane or terrain
	Size      float64 `toml:"size,omitempty" yaml:"size,omitempty"`
	Divisions int     `toml:"divisions,omitempty" yaml:"divisions,omitempty"`
	Amplitude float64 `toml:"amplitude,omitempty" yaml:"amplitude,omitempty"` // Terrain height
	Position  Vec     `toml:"position,inline" yaml:"position"`
	Rotation  Vec     `toml:"rotation,inline" yaml:"rotation"`
	Color     string  `toml:"color,omitempty" yaml:"color,omitempty"`

	Spin *Vec        `toml:"spin,inline,omitempty" yaml:"spin,omitempty"` // Degrees per second
	Path *PathConfig `toml:"path,omitempty" yaml:"path,omitempty"`
}

// PathConfig moves a mesh through waypoints with a spring.
type PathConfig struct {
	Waypoints []Vec   `toml:"waypoints" yaml:"waypoints"`
	Frequency float64 `toml:"frequency" yaml:"frequency"`
	Damping   float64 `toml:"damping" yaml:"damping"`
	Tolerance float64 `toml:"tolerance" yaml:"tolerance"`
}

// Vec is a three component vector in a scene file.
type Vec struct {
	X float64 `toml:"x" yaml:"x"`
	Y float64 `toml:"y" yaml:"y"`
	Z float64 `toml:"z" yaml:"z"`
}

// V converts to a math3d vector.
func (v Vec) V() math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}

// Radians converts a vector of degrees to radians.
func (v Vec) Radians() math3d.Vec3 {
	return v.V().Scale(degToRad)
}

const degToRad = math.Pi / 180

// Default returns the built-in scene: a rolling terrain, a train driving a
// loop around it, a fixed light and a reflector.
func Default() *Config {
	cfg := base()
	cfg.Lights = defaultLights()
	cfg.Meshes = defaultMeshes()
	return cfg
}

// base holds the scalar defaults that a scene file overrides field by field.
func base() *Config {
	return &Config{
		Render: RenderConfig{
			Width:        320,
			Height:       240,
			Shading:      "gouraud",
			Illumination: "phong",
			Background:   "#87ceeb",
			FPS:          30,
			LogLevel:     "info",
		},
		Camera: CameraConfig{
			Mode:     "static",
			Position: Vec{35, 60, 50},
			Subject:  "train",
			Height:   20,
		},
	}
}

func defaultLights() []LightConfig {
	return []LightConfig{
		{Kind: "point", Position: Vec{10, 10, -15}},
		{Kind: "spot", Position: Vec{-2, 10, 3}, Target: Vec{10, 0, 10}},
	}
}

func defaultMeshes() []MeshConfig {
	return []MeshConfig{
		{
			Name:      "terrain",
			Primitive: "terrain",
			Size:      60,
			Divisions: 24,
			Amplitude: 2,
			Color:     "#228b22",
		},
		{
			Name:      "train",
			Primitive: "cube",
			Size:      3,
			Position:  Vec{0, 3, 12},
			Color:     "#b22222",
			Path: &PathConfig{
				Waypoints: []Vec{{12, 3, 0}, {0, 3, -12}, {-12, 3, 0}, {0, 3, 12}},
				Frequency: 1.5,
				Damping:   1,
				Tolerance: 1,
			},
		},
	}
}

// Load reads a scene file. Values missing from the file keep their
// defaults, and a file without lights or meshes gets the built-in ones.
// Unknown fields are an error.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("loading scene from %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a scene description in the given format over the defaults
// and validates it.
func Decode(r io.Reader, format Format) (*Config, error) {
	cfg := base()

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	if len(cfg.Lights) == 0 && len(cfg.Meshes) == 0 {
		cfg.Lights = defaultLights()
		cfg.Meshes = defaultMeshes()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the config in the given format.
func (c *Config) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(c)
	}
	return nil, ErrUnsupportedFormat
}

// SaveTo writes the config to path, choosing the encoding by extension.
func (c *Config) SaveTo(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Overrides are command line values applied over the file.
// Zero values leave the config unchanged.
type Overrides struct {
	Width        int
	Height       int
	Shading      string
	Illumination string
	Camera       string
	LogLevel     string
}

// Apply copies the set overrides into the config.
func (c *Config) Apply(o Overrides) {
	if o.Width > 0 {
		c.Render.Width = o.Width
	}
	if o.Height > 0 {
		c.Render.Height = o.Height
	}
	if o.Shading != "" {
		c.Render.Shading = o.Shading
	}
	if o.Illumination != "" {
		c.Render.Illumination = o.Illumination
	}
	if o.Camera != "" {
		c.Camera.Mode = o.Camera
	}
	if o.LogLevel != "" {
		c.Render.LogLevel = o.LogLevel
	}
}

// Validate checks every enumerated value and cross reference.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("fps %d must be positive", c.Render.FPS)
	}
	if _, err := render.ParseShadingMode(c.Render.Shading); err != nil {
		return err
	}
	if _, err := render.ParseIlluminationModel(c.Render.Illumination); err != nil {
		return err
	}
	if _, err := ParseColor(c.Render.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}

	mode, err := ParseCameraMode(c.Camera.Mode)
	if err != nil {
		return err
	}
	if mode != StaticCamera && !c.hasMesh(c.Camera.Subject) {
		return fmt.Errorf("camera subject %q: %w", c.Camera.Subject, ErrUnknownMesh)
	}

	for i, l := range c.Lights {
		if _, err := render.ParseLightKind(l.Kind); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	for i, m := range c.Meshes {
		if (m.File == "") == (m.Primitive == "") {
			return fmt.Errorf("mesh %d (%s): exactly one of file or primitive is required", i, m.Name)
		}
		if m.Color != "" {
			if _, err := ParseColor(m.Color); err != nil {
				return fmt.Errorf("mesh %d (%s): %w", i, m.Name, err)
			}
		}
		if m.Path != nil && len(m.Path.Waypoints) == 0 {
			return fmt.Errorf("mesh %d (%s): %w", i, m.Name, ErrEmptyPath)
		}
	}
	return nil
}

func (c *Config) hasMesh(name string) bool {
	for _, m := range c.Meshes {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ParseColor parses a hex color such as "#ff8000" or "#f80". An empty
// string is white.
func ParseColor(s string) (render.Color, error) {
	if s == "" {
		return render.ColorWhite, nil
	}
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return render.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return render.RGB(r, g, b), nil
}
