package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/mattn/go-runewidth"

	"github.com/EinSatzMitX/charcoal/render"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/view"
)

var (
	statusBg = terminal.RGB{R: 40, G: 40, B: 50}
	statusFg = terminal.RGB{R: 200, G: 200, B: 200}
	errorFg  = terminal.RGB{R: 255, G: 120, B: 120}
)

// drawStatus fills the bottom row of dst with session info, or with the
// active command line / error message when one is present. The status
// row lives inside the frame buffer so the regular diff covers it.
func drawStatus(dst *render.FrameBuffer, d *Dispatcher, vp *view.Viewport, path string, imgW, imgH int, profile terminal.Profile) {
	rows := dst.Rows()
	cols := dst.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	y := rows - 1

	fg, bg := statusColors(profile, false)

	text := ""
	switch {
	case d.CommandLine() != "":
		text = d.CommandLine()
	case d.Message() != "":
		text = " " + d.Message() + " "
		fg, bg = statusColors(profile, true)
	default:
		cx, cy := vp.Center()
		text = fmt.Sprintf(" %s | %dx%d | %.0f%% | %s | [%.0f,%.0f] | q:quit ±:zoom hjkl:pan 0:fit ::cmd",
			filepath.Base(path), imgW, imgH, vp.Zoom()*100, profile, cx, cy)
	}

	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 || x+w > cols {
			break
		}
		dst.Set(x, y, terminal.Cell{Rune: r, Fg: fg, Bg: bg})
		// wide runes occupy the following cell as well
		for i := 1; i < w; i++ {
			dst.Set(x+i, y, terminal.Cell{Rune: 0, Fg: fg, Bg: bg})
		}
		x += w
	}
	for ; x < cols; x++ {
		dst.Set(x, y, terminal.Cell{Rune: ' ', Fg: fg, Bg: bg})
	}
}

// statusColors picks the bar palette for the active profile; mono
// terminals get default colors only and 256-color terminals get the
// nearest palette entries
func statusColors(profile terminal.Profile, isError bool) (fg, bg terminal.Color) {
	if profile == terminal.ProfileNoColor {
		return terminal.DefaultColor(), terminal.DefaultColor()
	}
	f := statusFg
	if isError {
		f = errorFg
	}
	if profile == terminal.Profile256 {
		return terminal.NewIndexed(render.NearestIndex(f)), terminal.NewIndexed(render.NearestIndex(statusBg))
	}
	return terminal.NewRGB(f.R, f.G, f.B), terminal.NewRGB(statusBg.R, statusBg.G, statusBg.B)
}
