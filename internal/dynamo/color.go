package dynamo

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an HSL triple with components nominally in [0, 1]. Hue may sit
// slightly outside that range and wraps when converted to RGB.
type Color struct {
	H, S, L float64
}

// RGB returns the colour in sRGB with components in [0, 1].
func (c Color) RGB() (r, g, b float64) {
	h := math.Mod(c.H, 1)
	if h < 0 {
		h++
	}
	col := colorful.Hsl(h*360, clamp01(c.S), clamp01(c.L)).Clamped()
	return col.R, col.G, col.B
}

// RGBA8 returns 8-bit channels with full opacity.
func (c Color) RGBA8() (r, g, b, a uint8) {
	fr, fg, fb := c.RGB()
	return uint8(fr*255 + 0.5), uint8(fg*255 + 0.5), uint8(fb*255 + 0.5), 255
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return colorful.Color{R: r, G: g, B: b}.Hex()
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
