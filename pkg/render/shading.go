package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// ShadingMode selects how lighting is evaluated across a triangle.
type ShadingMode int

const (
	FlatShading    ShadingMode = iota // one intensity per triangle
	GouraudShading                    // per-vertex intensity, interpolated
	PhongShading                      // per-pixel intensity from interpolated normals
)

func (m ShadingMode) String() string {
	switch m {
	case FlatShading:
		return "flat"
	case GouraudShading:
		return "gouraud"
	case PhongShading:
		return "phong"
	default:
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
}

// Next cycles Flat -> Gouraud -> Phong -> Flat.
func (m ShadingMode) Next() ShadingMode {
	return (m + 1) % 3
}

// ParseShadingMode maps "flat", "gouraud" or "phong" to a mode.
func ParseShadingMode(s string) (ShadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat":
		return FlatShading, nil
	case "gouraud", "":
		return GouraudShading, nil
	case "phong":
		return PhongShading, nil
	}
	return 0, fmt.Errorf("unknown shading mode %q", s)
}

// Sample is the per-vertex quantity a Shader interpolates across a triangle.
// Which fields are meaningful depends on the shader.
type Sample struct {
	Intensity float64
	Position  math3d.Vec3
	Normal    math3d.Vec3
}

// Lerp interpolates every field of the sample. Equal endpoints yield the
// endpoint exactly.
func (s Sample) Lerp(o Sample, t float64) Sample {
	return Sample{
		Intensity: s.Intensity + (o.Intensity-s.Intensity)*t,
		Position:  s.Position.Lerp(o.Position, t),
		Normal:    s.Normal.Lerp(o.Normal, t),
	}
}

// Shader is a shading strategy. Prepare runs once per triangle and returns
// the samples the rasterizer interpolates along edges and spans; Shade turns
// an interpolated sample into an intensity in [0, 1].
type Shader interface {
	Prepare(tri [3]ProjectedVertex) [3]Sample
	Shade(s Sample) float64
}

// Lighting is the per-frame input every shader evaluates against.
type Lighting struct {
	Lights []Light
	Eye    math3d.Vec3
	Model  IlluminationModel
}

// Illuminate evaluates the lighting at a surface point.
func (l Lighting) Illuminate(pos, normal math3d.Vec3) float64 {
	return Illuminate(pos, normal, l.Lights, l.Eye, l.Model)
}

// NewShader returns the strategy for mode. Unknown modes fall back to
// Gouraud.
func NewShader(mode ShadingMode, lighting Lighting) Shader {
	switch mode {
	case FlatShading:
		return flatShader{lighting}
	case PhongShading:
		return phongShader{lighting}
	default:
		return gouraudShader{lighting}
	}
}

type flatShader struct{ lighting Lighting }

func (s flatShader) Prepare(tri [3]ProjectedVertex) [3]Sample {
	center := tri[0].World.Add(tri[1].World).Add(tri[2].World).Scale(1.0 / 3)
	normal := tri[0].Normal.Add(tri[1].Normal).Add(tri[2].Normal).Scale(1.0 / 3).Normalize()
	sample := Sample{Intensity: s.lighting.Illuminate(center, normal)}
	return [3]Sample{sample, sample, sample}
}

func (flatShader) Shade(s Sample) float64 { return s.Intensity }

type gouraudShader struct{ lighting Lighting }

func (s gouraudShader) Prepare(tri [3]ProjectedVertex) [3]Sample {
	var out [3]Sample
	for i, v := range tri {
		out[i].Intensity = s.lighting.Illuminate(v.World, v.Normal.Normalize())
	}
	return out
}

func (gouraudShader) Shade(s Sample) float64 { return s.Intensity }

type phongShader struct{ lighting Lighting }

func (phongShader) Prepare(tri [3]ProjectedVertex) [3]Sample {
	var out [3]Sample
	for i, v := range tri {
		out[i] = Sample{Position: v.World, Normal: v.Normal}
	}
	return out
}

func (s phongShader) Shade(smp Sample) float64 {
	return s.lighting.Illuminate(smp.Position, smp.Normal.Normalize())
}

// ConstantShader shades every pixel with the same intensity. It is used for
// overlays and for checking coverage independently of lighting.
type ConstantShader float64

func (c ConstantShader) Prepare([3]ProjectedVertex) [3]Sample {
	s := Sample{Intensity: float64(c)}
	return [3]Sample{s, s, s}
}

func (c ConstantShader) Shade(Sample) float64 { return clampIntensity(float64(c)) }
