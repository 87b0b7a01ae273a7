package viewer

import (
	"log"
	"strings"

	"github.com/EinSatzMitX/charcoal/config"
	"github.com/EinSatzMitX/charcoal/feedback"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/view"
)

// State is the dispatcher's interaction state
type State uint8

const (
	// StateIdle accepts navigation keys
	StateIdle State = iota
	// StateCommand collects a ':' command line
	StateCommand
	// StateQuitting is terminal; the loop exits when it observes it
	StateQuitting
)

// Dispatcher maps input events to viewport mutations and load requests.
// It never touches the terminal itself; the loop consumes its dirty
// flag, pending load and state.
type Dispatcher struct {
	state State
	vp    *view.Viewport
	cfg   *config.Config
	bell  *feedback.Bell

	dirty   bool
	cmdBuf  []rune
	message string

	loadPath     string
	loadSet      bool
	toggleStatus bool
}

// NewDispatcher wires the dispatcher to a viewport and settings
func NewDispatcher(vp *view.Viewport, cfg *config.Config, bell *feedback.Bell) *Dispatcher {
	return &Dispatcher{
		state: StateIdle,
		vp:    vp,
		cfg:   cfg,
		bell:  bell,
	}
}

// State returns the current interaction state
func (d *Dispatcher) State() State { return d.state }

// Dirty reports and clears the recomposition flag
func (d *Dispatcher) Dirty() bool {
	dirty := d.dirty
	d.dirty = false
	return dirty
}

// Message returns the transient status message, if any
func (d *Dispatcher) Message() string { return d.message }

// CommandLine returns the command buffer including the leading ':' when
// command entry is active, or "" otherwise
func (d *Dispatcher) CommandLine() string {
	if d.state != StateCommand {
		return ""
	}
	return ":" + string(d.cmdBuf)
}

// TakeLoad reports a pending image load. path is empty for a reload of
// the current file. The request is cleared on read.
func (d *Dispatcher) TakeLoad() (path string, ok bool) {
	if !d.loadSet {
		return "", false
	}
	path = d.loadPath
	d.loadPath = ""
	d.loadSet = false
	return path, true
}

// TakeToggleStatus reports and clears a pending status-line toggle
func (d *Dispatcher) TakeToggleStatus() bool {
	t := d.toggleStatus
	d.toggleStatus = false
	return t
}

// SetViewport points the dispatcher at a new viewport after a load
func (d *Dispatcher) SetViewport(vp *view.Viewport) {
	d.vp = vp
}

// SetMessage replaces the transient status message
func (d *Dispatcher) SetMessage(msg string) {
	if d.message != msg {
		d.message = msg
		d.dirty = true
	}
}

// HandleKey processes one key event. Unrecognized input is logged and
// dropped, never fatal.
func (d *Dispatcher) HandleKey(ev terminal.Event) {
	switch d.state {
	case StateQuitting:
		// terminal state, ignore everything
	case StateCommand:
		d.handleCommandKey(ev)
	default:
		d.handleIdleKey(ev)
	}
}

func (d *Dispatcher) handleIdleKey(ev terminal.Event) {
	small := d.cfg.PanStep
	large := d.cfg.PanStepLarge

	switch ev.Key {
	case terminal.KeyEscape, terminal.KeyCtrlC, terminal.KeyCtrlD:
		d.state = StateQuitting
		return

	case terminal.KeyLeft:
		d.pan(-d.step(ev, small, large), 0)
	case terminal.KeyRight:
		d.pan(d.step(ev, small, large), 0)
	case terminal.KeyUp:
		d.pan(0, -d.step(ev, small, large))
	case terminal.KeyDown:
		d.pan(0, d.step(ev, small, large))

	case terminal.KeyPageUp:
		d.pan(0, -d.vp.Grid().Rows)
	case terminal.KeyPageDown:
		d.pan(0, d.vp.Grid().Rows)
	case terminal.KeyHome:
		d.jumpHorizontal(0)
	case terminal.KeyEnd:
		d.jumpHorizontal(1)

	case terminal.KeyRune:
		d.handleIdleRune(ev.Rune)

	default:
		log.Printf("viewer: unhandled key 0x%x", ev.Key)
	}
}

func (d *Dispatcher) handleIdleRune(r rune) {
	switch r {
	case 'q', 'Q':
		d.state = StateQuitting

	case ':':
		d.state = StateCommand
		d.cmdBuf = d.cmdBuf[:0]
		d.dirty = true

	// Zoom
	case '+', '=':
		d.zoom(d.cfg.ZoomStep)
	case '-', '_':
		d.zoom(1 / d.cfg.ZoomStep)
	case '0':
		d.vp.Reset()
		d.clearMessage()
		d.dirty = true

	// Vim-style pan
	case 'h':
		d.pan(-d.cfg.PanStep, 0)
	case 'l':
		d.pan(d.cfg.PanStep, 0)
	case 'j':
		d.pan(0, d.cfg.PanStep)
	case 'k':
		d.pan(0, -d.cfg.PanStep)
	case 'H':
		d.pan(-d.cfg.PanStepLarge, 0)
	case 'L':
		d.pan(d.cfg.PanStepLarge, 0)
	case 'J':
		d.pan(0, d.cfg.PanStepLarge)
	case 'K':
		d.pan(0, -d.cfg.PanStepLarge)

	// Jump to vertical edges
	case 'g':
		d.jumpVertical(0)
	case 'G':
		d.jumpVertical(1)

	case 'r', 'R':
		d.requestLoad("")

	case 's', 'S':
		d.toggleStatus = true
		d.dirty = true

	default:
		log.Printf("viewer: unbound key %q", r)
		d.bell.Buzz()
	}
}

func (d *Dispatcher) handleCommandKey(ev terminal.Event) {
	switch ev.Key {
	case terminal.KeyEscape, terminal.KeyCtrlC:
		d.state = StateIdle
		d.cmdBuf = d.cmdBuf[:0]
		d.dirty = true

	case terminal.KeyEnter:
		cmd := string(d.cmdBuf)
		d.state = StateIdle
		d.cmdBuf = d.cmdBuf[:0]
		d.dirty = true
		d.execute(cmd)

	case terminal.KeyBackspace:
		if len(d.cmdBuf) == 0 {
			d.state = StateIdle
		} else {
			d.cmdBuf = d.cmdBuf[:len(d.cmdBuf)-1]
		}
		d.dirty = true

	case terminal.KeySpace:
		d.cmdBuf = append(d.cmdBuf, ' ')
		d.dirty = true

	case terminal.KeyRune:
		d.cmdBuf = append(d.cmdBuf, ev.Rune)
		d.dirty = true
	}
}

// execute runs a completed ':' command
func (d *Dispatcher) execute(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}

	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		d.state = StateQuitting
	case "e", "edit":
		if arg == "" {
			d.SetMessage("usage: :e <path>")
			d.bell.Buzz()
			return
		}
		d.requestLoad(arg)
	default:
		d.SetMessage("unknown command: " + name)
		d.bell.Buzz()
	}
}

// step picks the pan distance for an arrow key, honoring shift
func (d *Dispatcher) step(ev terminal.Event, small, large int) int {
	if ev.Modifiers&terminal.ModShift != 0 {
		return large
	}
	return small
}

func (d *Dispatcher) pan(dx, dy int) {
	if d.vp.PanBy(float64(dx), float64(dy)) {
		d.bell.Buzz()
	}
	d.clearMessage()
	d.dirty = true
}

func (d *Dispatcher) zoom(factor float64) {
	if d.vp.ZoomBy(factor) {
		d.bell.Buzz()
	}
	d.clearMessage()
	d.dirty = true
}

// jumpVertical moves the center to the top (frac=0) or bottom (frac=1)
// edge, keeping the horizontal position
func (d *Dispatcher) jumpVertical(frac float64) {
	cx, _ := d.vp.Center()
	_, imgH := d.vp.ImageSize()
	d.vp.PanTo(cx, frac*imgH)
	d.clearMessage()
	d.dirty = true
}

// jumpHorizontal moves the center to the left (frac=0) or right (frac=1)
// edge, keeping the vertical position
func (d *Dispatcher) jumpHorizontal(frac float64) {
	_, cy := d.vp.Center()
	imgW, _ := d.vp.ImageSize()
	d.vp.PanTo(frac*imgW, cy)
	d.clearMessage()
	d.dirty = true
}

func (d *Dispatcher) requestLoad(path string) {
	d.loadPath = path
	d.loadSet = true
	d.dirty = true
}

func (d *Dispatcher) clearMessage() {
	if d.message != "" {
		d.message = ""
		d.dirty = true
	}
}
