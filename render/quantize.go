package render

import (
	"github.com/EinSatzMitX/charcoal/terminal"
)

// Quantizer maps true-color values to the representation the active
// terminal profile supports. The profile is fixed for the session, so one
// quantizer is built at startup and threaded through composition.
type Quantizer struct {
	profile terminal.Profile

	// Nearest-palette lookups repeat heavily within a frame; memoize them.
	// Bounded implicitly by the 24-bit color space, in practice by the
	// distinct colors in the loaded image.
	cache map[terminal.RGB]uint8
}

// NewQuantizer creates a quantizer for the given profile
func NewQuantizer(profile terminal.Profile) *Quantizer {
	q := &Quantizer{profile: profile}
	if profile == terminal.Profile256 {
		q.cache = make(map[terminal.RGB]uint8, 1024)
	}
	return q
}

// Profile returns the profile the quantizer was built for
func (q *Quantizer) Profile() terminal.Profile {
	return q.profile
}

// Quantize resolves a 24-bit color for the active profile: true color
// passes through unchanged, 256-color maps to the nearest palette entry,
// and the no-color profile resolves everything to the terminal default
// (glyph selection carries the information instead, see RampGlyph).
func (q *Quantizer) Quantize(c terminal.RGB) terminal.Color {
	switch q.profile {
	case terminal.ProfileTrueColor:
		return terminal.Color{Kind: terminal.ColorRGB, RGB: c}
	case terminal.Profile256:
		if idx, ok := q.cache[c]; ok {
			return terminal.NewIndexed(idx)
		}
		idx := NearestIndex(c)
		q.cache[c] = idx
		return terminal.NewIndexed(idx)
	default:
		return terminal.DefaultColor()
	}
}
