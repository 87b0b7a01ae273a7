// Package viewer runs the interactive session: a single-threaded event
// loop that owns the viewport, the frame buffer pair and the terminal.
package viewer

import (
	"log"

	"github.com/EinSatzMitX/charcoal/config"
	"github.com/EinSatzMitX/charcoal/feedback"
	"github.com/EinSatzMitX/charcoal/pixel"
	"github.com/EinSatzMitX/charcoal/render"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/view"
)

// Viewer ties together the loaded image, the viewport and the terminal
type Viewer struct {
	term terminal.Terminal
	cfg  *config.Config
	bell *feedback.Bell
	comp *render.Compositor

	img  *pixel.Buffer
	path string

	vp      *view.Viewport
	bufs    *render.BufferPair
	scratch *render.FrameBuffer
	disp    *Dispatcher

	showStatus  bool
	initialZoom float64
}

// New builds a viewer for an already decoded image. The terminal must
// be initialized by the caller, which also owns its cleanup.
func New(term terminal.Terminal, cfg *config.Config, bell *feedback.Bell, path string, img *pixel.Buffer) *Viewer {
	return &Viewer{
		term:       term,
		cfg:        cfg,
		bell:       bell,
		comp:       render.NewCompositor(term.Profile()),
		img:        img,
		path:       path,
		showStatus: cfg.ShowStatus,
	}
}

// SetInitialZoom overrides the fit-to-screen starting zoom. Must be
// called before Run. The value still clamps to the zoom bounds.
func (v *Viewer) SetInitialZoom(zoom float64) {
	v.initialZoom = zoom
}

// Run drives the event loop until quit. Composition and diffing run to
// completion between events; nothing else mutates viewer state.
func (v *Viewer) Run() error {
	cols, rows := v.term.Size()

	grid := v.imageGrid(cols, rows)
	v.vp = view.New(v.img.Width(), v.img.Height(), grid, v.cfg.MaxZoom)
	if v.initialZoom > 0 {
		v.vp.ZoomBy(v.initialZoom / v.vp.Zoom())
	}
	v.bufs = render.NewBufferPair(cols, rows)
	v.scratch = render.NewFrameBuffer(grid.Cols, grid.Rows)
	v.disp = NewDispatcher(v.vp, v.cfg, v.bell)

	// First frame is flushed in full
	v.compose()
	v.flushAll()

	for {
		ev := v.term.PollEvent()

		switch ev.Type {
		case terminal.EventKey:
			v.disp.HandleKey(ev)

		case terminal.EventResize:
			cols, rows = ev.Width, ev.Height
			grid := v.imageGrid(cols, rows)
			v.bufs.Resize(cols, rows)
			v.scratch = render.NewFrameBuffer(grid.Cols, grid.Rows)
			v.vp.SetGrid(grid)
			v.term.Clear()
			v.compose()
			v.flushAll()
			continue

		case terminal.EventError:
			return ev.Err

		case terminal.EventClosed:
			return nil
		}

		if v.disp.State() == StateQuitting {
			return nil
		}

		if path, ok := v.disp.TakeLoad(); ok {
			v.loadImage(path)
		}

		if v.disp.TakeToggleStatus() {
			v.showStatus = !v.showStatus
			grid := v.imageGrid(cols, rows)
			v.scratch = render.NewFrameBuffer(grid.Cols, grid.Rows)
			v.vp.SetGrid(grid)
			v.disp.Dirty() // consumed by the full redraw
			v.term.Clear()
			v.compose()
			v.flushAll()
			continue
		}

		if v.disp.Dirty() {
			v.compose()
			v.flushDiff()
		}
	}
}

// imageGrid is the portion of the terminal grid that shows the image,
// excluding the status row
func (v *Viewer) imageGrid(cols, rows int) view.Grid {
	if v.showStatus && rows > 1 {
		rows--
	}
	return view.Grid{Cols: cols, Rows: rows}
}

// loadImage replaces the current image, or reloads the current path
// when path is empty. Decode failure keeps the previous image and
// surfaces the error in the status line.
func (v *Viewer) loadImage(path string) {
	reload := path == ""
	if reload {
		path = v.path
	}

	img, err := pixel.Decode(path, v.cfg.MaxDecodeSize)
	if err != nil {
		log.Printf("viewer: %v", err)
		v.disp.SetMessage(err.Error())
		v.bell.Buzz()
		return
	}

	v.img = img
	v.path = path
	v.vp = view.New(img.Width(), img.Height(), v.vp.Grid(), v.cfg.MaxZoom)
	v.disp.SetViewport(v.vp)
	if reload {
		v.disp.SetMessage("reloaded")
	}
}

// compose renders the current frame into the pair's current buffer
func (v *Viewer) compose() {
	dst := v.bufs.Current()
	dst.Fill(terminal.Cell{Rune: ' '})

	// The image area excludes the status row, so composition goes
	// through a grid-sized scratch buffer that is copied into the frame
	grid := v.vp.Grid()
	v.comp.Compose(v.img, v.vp, v.scratch)
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			dst.Set(x, y, v.scratch.At(x, y))
		}
	}

	if v.showStatus {
		drawStatus(dst, v.disp, v.vp, v.path, v.img.Width(), v.img.Height(), v.term.Profile())
	}
}

// flushAll pushes every cell of the current frame, then promotes it to
// previous
func (v *Viewer) flushAll() {
	cur := v.bufs.Current()
	for y := 0; y < cur.Rows(); y++ {
		for x := 0; x < cur.Cols(); x++ {
			v.term.SetCell(x, y, cur.At(x, y))
		}
	}
	v.term.Flush()
	v.bufs.Swap()
}

// flushDiff pushes only cells that changed since the previous frame
func (v *Viewer) flushDiff() {
	cur := v.bufs.Current()
	prev := v.bufs.Previous()

	for y := 0; y < cur.Rows(); y++ {
		for x := 0; x < cur.Cols(); x++ {
			c := cur.At(x, y)
			if c != prev.At(x, y) {
				v.term.SetCell(x, y, c)
			}
		}
	}
	v.term.Flush()
	v.bufs.Swap()
}
