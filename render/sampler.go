package render

import (
	"math"

	"github.com/EinSatzMitX/charcoal/pixel"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/view"
)

// SampleHalves computes the average color of the top and bottom halves of
// a source region, supporting half-block cells: the glyph is the upper
// half block, foreground takes the top average, background the bottom.
// ok is false for a half whose region does not intersect the buffer; the
// caller renders those as transparent background.
func SampleHalves(buf *pixel.Buffer, r view.Rect) (top, bottom terminal.RGB, topOK, bottomOK bool) {
	half := r.H / 2
	top, topOK = SampleRegion(buf, view.Rect{X: r.X, Y: r.Y, W: r.W, H: half})
	bottom, bottomOK = SampleRegion(buf, view.Rect{X: r.X, Y: r.Y + half, W: r.W, H: half})
	return top, bottom, topOK, bottomOK
}

// SampleRegion computes the average color of all source pixels falling
// within the region. The mean is the plain arithmetic mean of the 8-bit
// channel values; this is an intentional simplicity trade-off over a
// gamma-correct blend, kept as documented behavior. Regions narrower than
// one source pixel in either dimension fall back to nearest-pixel
// sampling. An empty intersection with the buffer returns ok=false.
func SampleRegion(buf *pixel.Buffer, r view.Rect) (terminal.RGB, bool) {
	if buf == nil || buf.Empty() || r.Empty() {
		return terminal.RGB{}, false
	}

	// Intersect with buffer bounds; only the in-bounds portion contributes
	x0 := math.Max(r.X, 0)
	y0 := math.Max(r.Y, 0)
	x1 := math.Min(r.X+r.W, float64(buf.Width()))
	y1 := math.Min(r.Y+r.H, float64(buf.Height()))
	if x1 <= x0 || y1 <= y0 {
		return terminal.RGB{}, false
	}

	// Deep zoom-out maps a region onto less than one source pixel per
	// cell; averaging would be wasted work there
	if x1-x0 < 1 || y1-y0 < 1 {
		return samplePoint(buf, (x0+x1)/2, (y0+y1)/2)
	}

	ix0 := int(math.Floor(x0))
	iy0 := int(math.Floor(y0))
	ix1 := int(math.Ceil(x1))
	iy1 := int(math.Ceil(y1))

	var sumR, sumG, sumB, count int
	opaque := false

	for y := iy0; y < iy1; y++ {
		for x := ix0; x < ix1; x++ {
			p := buf.At(x, y)
			if p.A > 0 {
				opaque = true
			}
			sumR += int(p.R)
			sumG += int(p.G)
			sumB += int(p.B)
			count++
		}
	}

	if count == 0 || !opaque {
		return terminal.RGB{}, false
	}

	return terminal.RGB{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
	}, true
}

// samplePoint reads the single pixel nearest to (fx, fy)
func samplePoint(buf *pixel.Buffer, fx, fy float64) (terminal.RGB, bool) {
	x := int(math.Floor(fx))
	y := int(math.Floor(fy))

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= buf.Width() {
		x = buf.Width() - 1
	}
	if y >= buf.Height() {
		y = buf.Height() - 1
	}

	p := buf.At(x, y)
	if p.A == 0 {
		return terminal.RGB{}, false
	}
	return terminal.RGB{R: p.R, G: p.G, B: p.B}, true
}
