// Package render turns the pixel buffer seen through a viewport into a
// frame of terminal cells.
package render

import (
	"github.com/EinSatzMitX/charcoal/pixel"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/view"
)

// Block glyphs used by the color path
const (
	UpperHalfBlock = '▀'
	LowerHalfBlock = '▄'
)

// Mode selects the rendering strategy. It is chosen once at startup from
// the terminal profile and threaded through composition explicitly; the
// two paths differ structurally (two samples per cell vs one), so this is
// not a per-cell branch on a capability flag.
type Mode uint8

const (
	// ModeColor renders half-block cells with a foreground and
	// background color per cell
	ModeColor Mode = iota
	// ModeMono renders one ramp glyph per cell from the combined cell
	// luminance, for terminals without color support
	ModeMono
)

// ModeForProfile maps a terminal profile to a rendering mode
func ModeForProfile(p terminal.Profile) Mode {
	if p == terminal.ProfileNoColor {
		return ModeMono
	}
	return ModeColor
}

// Compositor walks the terminal grid and produces complete frames
type Compositor struct {
	mode  Mode
	quant *Quantizer
}

// NewCompositor builds a compositor for the profile detected at startup
func NewCompositor(profile terminal.Profile) *Compositor {
	return &Compositor{
		mode:  ModeForProfile(profile),
		quant: NewQuantizer(profile),
	}
}

// Mode returns the active rendering mode
func (c *Compositor) Mode() Mode {
	return c.mode
}

// Compose renders the viewport's visible region into dst, one source
// sub-rectangle per cell. dst dimensions define the grid partition, so
// callers pass a buffer matching the terminal grid (minus any reserved
// status rows).
func (c *Compositor) Compose(buf *pixel.Buffer, vp *view.Viewport, dst *FrameBuffer) {
	cols := dst.Cols()
	rows := dst.Rows()
	if cols == 0 || rows == 0 {
		return
	}

	region := vp.VisibleRegion(view.Grid{Cols: cols, Rows: rows})
	if region.Empty() {
		dst.Fill(terminal.Cell{Rune: ' '})
		return
	}

	cellW := region.W / float64(cols)
	cellH := region.H / float64(rows)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cellRect := view.Rect{
				X: region.X + float64(col)*cellW,
				Y: region.Y + float64(row)*cellH,
				W: cellW,
				H: cellH,
			}

			if c.mode == ModeMono {
				dst.Set(col, row, c.monoCell(buf, cellRect))
			} else {
				dst.Set(col, row, c.colorCell(buf, cellRect))
			}
		}
	}
}

// colorCell assembles a half-block cell from the top and bottom half
// averages. A half with no source coverage renders as the terminal
// default background.
func (c *Compositor) colorCell(buf *pixel.Buffer, r view.Rect) terminal.Cell {
	top, bottom, topOK, bottomOK := SampleHalves(buf, r)

	switch {
	case topOK && bottomOK:
		return terminal.Cell{
			Rune: UpperHalfBlock,
			Fg:   c.quant.Quantize(top),
			Bg:   c.quant.Quantize(bottom),
		}
	case topOK:
		return terminal.Cell{
			Rune: UpperHalfBlock,
			Fg:   c.quant.Quantize(top),
			Bg:   terminal.DefaultColor(),
		}
	case bottomOK:
		return terminal.Cell{
			Rune: LowerHalfBlock,
			Fg:   c.quant.Quantize(bottom),
			Bg:   terminal.DefaultColor(),
		}
	default:
		return terminal.Cell{
			Rune: ' ',
			Fg:   terminal.DefaultColor(),
			Bg:   terminal.DefaultColor(),
		}
	}
}

// monoCell selects a single ramp glyph from the whole cell region; the
// mono path needs only one sample per cell
func (c *Compositor) monoCell(buf *pixel.Buffer, r view.Rect) terminal.Cell {
	avg, ok := SampleRegion(buf, r)
	if !ok {
		return terminal.Cell{Rune: ' ', Fg: terminal.DefaultColor(), Bg: terminal.DefaultColor()}
	}
	return terminal.Cell{
		Rune: RampGlyph(avg),
		Fg:   terminal.DefaultColor(),
		Bg:   terminal.DefaultColor(),
	}
}
