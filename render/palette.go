package render

import (
	"github.com/EinSatzMitX/charcoal/terminal"
)

// Palette256 holds the RGB values of the fixed xterm 256-color palette:
// 16 system colors, the 6x6x6 color cube (indices 16-231, levels
// 0/95/135/175/215/255), and the 24-step grayscale ramp (indices 232-255,
// levels 8..238).
var Palette256 [256]terminal.RGB

// cubeValues are the channel levels of the 6x6x6 cube
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// systemColors are the xterm defaults for indices 0-15
var systemColors = [16]terminal.RGB{
	{R: 0, G: 0, B: 0},
	{R: 128, G: 0, B: 0},
	{R: 0, G: 128, B: 0},
	{R: 128, G: 128, B: 0},
	{R: 0, G: 0, B: 128},
	{R: 128, G: 0, B: 128},
	{R: 0, G: 128, B: 128},
	{R: 192, G: 192, B: 192},
	{R: 128, G: 128, B: 128},
	{R: 255, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 255, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
	{R: 255, G: 0, B: 255},
	{R: 0, G: 255, B: 255},
	{R: 255, G: 255, B: 255},
}

func init() {
	for i, c := range systemColors {
		Palette256[i] = c
	}

	// Color cube: index = 16 + 36*r + 6*g + b with r,g,b in [0,5]
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				Palette256[16+36*r+6*g+b] = terminal.RGB{
					R: cubeValues[r],
					G: cubeValues[g],
					B: cubeValues[b],
				}
			}
		}
	}

	// Grayscale ramp: indices 232-255, level = 8 + 10*step
	for step := 0; step < 24; step++ {
		level := uint8(8 + 10*step)
		Palette256[232+step] = terminal.RGB{R: level, G: level, B: level}
	}
}

// NearestIndex returns the palette index with minimum Euclidean distance in
// RGB space. Ties break toward the lowest index, making the selection fully
// deterministic.
func NearestIndex(c terminal.RGB) uint8 {
	best := 0
	bestDist := distSq(c, Palette256[0])

	for i := 1; i < 256; i++ {
		d := distSq(c, Palette256[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return uint8(best)
}

func distSq(a, b terminal.RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
