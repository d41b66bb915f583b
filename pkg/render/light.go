package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// LightKind discriminates the Light union.
type LightKind int

const (
	// PointLight radiates from Position and falls off with the squared
	// distance.
	PointLight LightKind = iota
	// SpotLight shines from Position toward Target and falls off with the
	// angle from that axis.
	SpotLight
)

func (k LightKind) String() string {
	switch k {
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	default:
		return fmt.Sprintf("LightKind(%d)", int(k))
	}
}

// ParseLightKind maps a name such as "point" or "spot" to a LightKind.
func ParseLightKind(s string) (LightKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point", "":
		return PointLight, nil
	case "spot", "reflector":
		return SpotLight, nil
	}
	return 0, fmt.Errorf("unknown light kind %q", s)
}

// Light is a point or spot light. Target is only read for spot lights.
type Light struct {
	Kind     LightKind
	Position math3d.Vec3
	Target   math3d.Vec3
}

// NewPointLight creates a point light at pos.
func NewPointLight(pos math3d.Vec3) Light {
	return Light{Kind: PointLight, Position: pos}
}

// NewSpotLight creates a spot light at pos aimed at target.
func NewSpotLight(pos, target math3d.Vec3) Light {
	return Light{Kind: SpotLight, Position: pos, Target: target}
}
