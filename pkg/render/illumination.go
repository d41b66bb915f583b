package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// IlluminationModel selects the specular reflection term.
type IlluminationModel int

const (
	// PhongIllumination uses the mirrored light vector R against the view
	// vector.
	PhongIllumination IlluminationModel = iota
	// BlinnIllumination uses the half vector between light and view.
	BlinnIllumination
)

func (m IlluminationModel) String() string {
	switch m {
	case PhongIllumination:
		return "phong"
	case BlinnIllumination:
		return "blinn"
	default:
		return fmt.Sprintf("IlluminationModel(%d)", int(m))
	}
}

// Next cycles to the other model.
func (m IlluminationModel) Next() IlluminationModel {
	if m == PhongIllumination {
		return BlinnIllumination
	}
	return PhongIllumination
}

// ParseIlluminationModel maps "phong" or "blinn" to a model.
func ParseIlluminationModel(s string) (IlluminationModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "phong", "":
		return PhongIllumination, nil
	case "blinn", "blinn-phong":
		return BlinnIllumination, nil
	}
	return 0, fmt.Errorf("unknown illumination model %q", s)
}

// Reflection coefficients.
const (
	Ambient  = 0.1 // ka
	Diffuse  = 0.6 // kd
	Specular = 0.3 // ks

	SpotExponent   = 50
	PointIntensity = 130 // numerator of the inverse-square falloff
)

// coincidentEpsilon is the squared distance below which a point light is
// considered to sit on the surface and contributes nothing.
const coincidentEpsilon = 1e-12

// Illuminate returns the light intensity in [0, 1] at a surface point seen
// from eye. The ambient term is always present; each light adds a diffuse
// and specular term scaled by its falloff.
func Illuminate(pos, normal math3d.Vec3, lights []Light, eye math3d.Vec3, model IlluminationModel) float64 {
	intensity := Ambient
	view := eye.Sub(pos).Normalize()

	for _, light := range lights {
		toLight := light.Position.Sub(pos)
		distSq := toLight.LenSq()
		if distSq < coincidentEpsilon {
			continue
		}
		l := toLight.Normalize()
		ndotl := math.Max(0, normal.Dot(l))

		var specular float64
		switch model {
		case BlinnIllumination:
			h := l.Add(view).Normalize()
			specular = math.Max(0, normal.Dot(h))
		default:
			r := normal.Scale(2 * ndotl).Sub(l).Normalize()
			specular = math.Max(0, r.Dot(view))
		}
		term := Diffuse*ndotl + Specular*specular

		switch light.Kind {
		case SpotLight:
			axis := light.Position.Sub(light.Target).Normalize()
			term *= math.Pow(math.Max(0, axis.Dot(l)), SpotExponent)
		default:
			term *= PointIntensity / distSq
		}

		intensity += term
	}

	return clampIntensity(intensity)
}

// clampIntensity limits i to [0, 1]; NaN maps to 0.
func clampIntensity(i float64) float64 {
	if !(i > 0) {
		return 0
	}
	if i > 1 {
		return 1
	}
	return i
}
