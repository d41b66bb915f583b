package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
	ColorSky   = color.RGBA{135, 206, 235, 255}
	ColorGrass = color.RGBA{34, 139, 34, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// MultiplyColor scales the RGB channels by intensity, rounding to the
// nearest value. Intensity is clamped to [0, 1]; alpha is kept.
func MultiplyColor(c Color, intensity float64) Color {
	if !(intensity > 0) { // also catches NaN
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	return Color{
		R: uint8(math.Round(float64(c.R) * intensity)),
		G: uint8(math.Round(float64(c.G) * intensity)),
		B: uint8(math.Round(float64(c.B) * intensity)),
		A: c.A,
	}
}
