// Package scene assembles meshes, lights and a camera rig from a scene
// description and advances their animation between frames.
package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// CameraMode selects how the rig places the camera each frame.
type CameraMode int

const (
	StaticCamera CameraMode = iota // Fixed position and target
	FollowCamera                   // Fixed position, target tracks the subject
	ObjectCamera                   // Rides above the subject, looks at the fixed target
)

func (m CameraMode) String() string {
	switch m {
	case StaticCamera:
		return "static"
	case FollowCamera:
		return "follow"
	case ObjectCamera:
		return "object"
	}
	return fmt.Sprintf("CameraMode(%d)", int(m))
}

// Next cycles static -> follow -> object -> static.
func (m CameraMode) Next() CameraMode {
	return (m + 1) % 3
}

// ParseCameraMode parses a camera mode name. Empty means static.
func ParseCameraMode(s string) (CameraMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static", "":
		return StaticCamera, nil
	case "follow":
		return FollowCamera, nil
	case "object":
		return ObjectCamera, nil
	}
	return 0, fmt.Errorf("unknown camera mode %q", s)
}

// CameraRig derives the frame camera from its mode and subject.
type CameraRig struct {
	Mode    CameraMode
	Base    render.Camera // Position and target of the static camera
	Subject *models.Mesh
	Height  float64
}

// Camera returns the camera for the current mode. Without a subject every
// mode falls back to the static camera.
func (r *CameraRig) Camera() render.Camera {
	cam := r.Base
	if r.Subject == nil {
		return cam
	}
	switch r.Mode {
	case FollowCamera:
		cam.Target = r.Subject.Position
	case ObjectCamera:
		cam.Position = r.Subject.Position.Add(math3d.V3(0, r.Height, 0))
	}
	return cam
}

// Scene is a flat list of meshes and lights plus frame settings. It is not
// safe for concurrent use; step and render from one goroutine.
type Scene struct {
	Meshes       []*models.Mesh
	Lights       []render.Light
	Rig          CameraRig
	Shading      render.ShadingMode
	Illumination render.IlluminationModel
	Background   render.Color
	Animators    []Animator
}

// New builds a scene from a validated config. Relative mesh file paths are
// resolved against baseDir.
func New(cfg *Config, baseDir string) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{}
	s.Shading, _ = render.ParseShadingMode(cfg.Render.Shading)
	s.Illumination, _ = render.ParseIlluminationModel(cfg.Render.Illumination)
	s.Background, _ = ParseColor(cfg.Render.Background)

	for _, lc := range cfg.Lights {
		kind, _ := render.ParseLightKind(lc.Kind)
		s.Lights = append(s.Lights, render.Light{
			Kind:     kind,
			Position: lc.Position.V(),
			Target:   lc.Target.V(),
		})
	}

	for i, mc := range cfg.Meshes {
		meshes, err := buildMeshes(mc, baseDir)
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, mc.Name, err)
		}
		for _, m := range meshes {
			if mc.Spin != nil {
				s.Animators = append(s.Animators, NewSpinAnimator(m, mc.Spin.Radians(), cfg.Render.FPS))
			}
			if mc.Path != nil {
				pa, err := NewPathAnimator(m, vecs(mc.Path.Waypoints), cfg.Render.FPS,
					mc.Path.Frequency, mc.Path.Damping, mc.Path.Tolerance)
				if err != nil {
					return nil, fmt.Errorf("mesh %d (%s): %w", i, mc.Name, err)
				}
				s.Animators = append(s.Animators, pa)
			}
		}
		s.Meshes = append(s.Meshes, meshes...)
	}

	mode, _ := ParseCameraMode(cfg.Camera.Mode)
	base := render.NewCamera(cfg.Camera.Position.V(), cfg.Camera.Target.V())
	base.FOV = cfg.Camera.FOV * degToRad
	s.Rig = CameraRig{
		Mode:    mode,
		Base:    *base,
		Subject: s.Mesh(cfg.Camera.Subject),
		Height:  cfg.Camera.Height,
	}
	if mode != StaticCamera && s.Rig.Subject == nil {
		return nil, fmt.Errorf("camera subject %q: %w", cfg.Camera.Subject, ErrUnknownMesh)
	}
	return s, nil
}

// Mesh returns the first mesh with the given name, or nil.
func (s *Scene) Mesh(name string) *models.Mesh {
	for _, m := range s.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Step advances every animator by one frame.
func (s *Scene) Step() {
	for _, a := range s.Animators {
		a.Step()
	}
}

// TriangleCount returns the number of faces across all meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.TriangleCount()
	}
	return n
}

// Frame snapshots the scene into a render frame. Meshes are shared, not
// copied; do not step the scene while the frame renders.
func (s *Scene) Frame() render.Frame {
	meshes := make([]render.MeshRenderer, len(s.Meshes))
	for i, m := range s.Meshes {
		meshes[i] = m
	}
	return render.Frame{
		Camera:       s.Rig.Camera(),
		Meshes:       meshes,
		Lights:       s.Lights,
		Shading:      s.Shading,
		Illumination: s.Illumination,
		Background:   s.Background,
	}
}

func buildMeshes(mc MeshConfig, baseDir string) ([]*models.Mesh, error) {
	var meshes []*models.Mesh
	if mc.File != "" {
		path := mc.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		loaded, err := LoadMeshFile(path)
		if err != nil {
			return nil, err
		}
		meshes = loaded
		if mc.Name != "" && len(meshes) == 1 {
			meshes[0].Name = mc.Name
		}
	} else {
		m, err := Primitive(mc)
		if err != nil {
			return nil, err
		}
		meshes = []*models.Mesh{m}
	}

	// Placement in the config is relative to any placement in the file.
	for _, m := range meshes {
		m.Position.AddAssign(mc.Position.V())
		m.Rotation.AddAssign(mc.Rotation.Radians())
		if mc.Color != "" {
			m.Color, _ = ParseColor(mc.Color)
		}
	}
	return meshes, nil
}

// LoadMeshFile loads every mesh in a .babylon or glTF file.
func LoadMeshFile(path string) ([]*models.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".babylon", ".json":
		return models.LoadBabylon(path)
	case ".gltf", ".glb":
		m, err := models.LoadGLTF(path)
		if err != nil {
			return nil, err
		}
		return []*models.Mesh{m}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Primitive builds the procedural mesh a config entry names.
func Primitive(mc MeshConfig) (*models.Mesh, error) {
	size := mc.Size
	if size <= 0 {
		size = 2
	}
	switch strings.ToLower(mc.Primitive) {
	case "cube":
		return models.NewCube(mc.Name, size), nil
	case "plane":
		return models.NewPlane(mc.Name, size, mc.Divisions), nil
	case "terrain":
		return models.NewGrid(mc.Name, size, mc.Divisions, Hills(mc.Amplitude, size/8)), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPrimitive, mc.Primitive)
}

// Hills is a rolling height field with the given amplitude and wavelength
// scale.
func Hills(amplitude, scale float64) models.HeightFunc {
	if scale == 0 {
		scale = 1
	}
	return func(x, z float64) float64 {
		return amplitude * math.Sin(x/scale) * math.Cos(z/scale)
	}
}

func vecs(in []Vec) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(in))
	for i, v := range in {
		out[i] = v.V()
	}
	return out
}
