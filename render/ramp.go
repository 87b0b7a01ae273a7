package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/EinSatzMitX/charcoal/terminal"
)

// Ramp is the luminance-ordered glyph ramp for no-color rendering,
// darkest to lightest
var Ramp = []rune(" .:-=+*#%@")

// RampGlyph selects the ramp glyph for a color by perceptual lightness
// (CIE L* of the color), so visually equal brightness maps to the same
// glyph regardless of hue
func RampGlyph(c terminal.RGB) rune {
	col := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	l, _, _ := col.Lab()

	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}

	idx := int(l*float64(len(Ramp)-1) + 0.5)
	if idx >= len(Ramp) {
		idx = len(Ramp) - 1
	}
	return Ramp[idx]
}
