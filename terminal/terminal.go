package terminal

import (
	"io"
	"os"
	"sync"
)

// Terminal provides low-level terminal access. It is the output sink for
// the render loop: positioned cell updates followed by an explicit Flush.
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// Profile returns the color capability selected at creation
	Profile() Profile

	// SetCell stages one cell update (0-indexed position)
	SetCell(x, y int, c Cell)

	// Flush pushes staged cell updates to the terminal
	Flush()

	// Clear erases the screen
	Clear()

	// PollEvent blocks until the next input or resize event
	PollEvent() Event
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend
	profile Profile

	output   *outputWriter
	input    *inputReader
	resizeCh chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal for the given color profile
func New(profile Profile) Terminal {
	b := newBackend()
	t := &termImpl{
		backend:  b,
		profile:  profile,
		resizeCh: make(chan Event, 1),
	}
	t.output = newOutputWriter(writerAdapter{b}, profile)
	return t
}

// writerAdapter exposes a Backend as an io.Writer for the output buffer
type writerAdapter struct {
	b Backend
}

func (w writerAdapter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Init enters raw mode and sets up the terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest pending resize
		select {
		case t.resizeCh <- ev:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ev:
			default:
			}
		}
	})

	t.backend.Write(csiAltScreenEnter)
	t.backend.Write(csiCursorHide)
	// Prevents terminal scroll/wrap on bottom-right corner write
	t.backend.Write(csiAutoWrapOff)

	t.output.clear()
	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.input != nil {
		t.input.stop()
	}

	t.backend.Write(csiCursorShow)
	t.backend.Write(csiAltScreenExit)
	// Re-enable auto-wrap after exiting alt screen so the main buffer has
	// wrap enabled
	t.backend.Write(csiAutoWrapOn)
	t.backend.Write(csiSGR0)

	t.backend.Fini()

	t.finalized = true
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

func (t *termImpl) Profile() Profile {
	return t.profile
}

func (t *termImpl) SetCell(x, y int, c Cell) {
	if !t.initialized || t.finalized {
		return
	}
	t.output.setCell(x, y, c)
}

func (t *termImpl) Flush() {
	if !t.initialized || t.finalized {
		return
	}
	t.output.flush()
}

func (t *termImpl) Clear() {
	if !t.initialized || t.finalized {
		return
	}
	t.output.clear()
}

// PollEvent blocks until the next input or resize event
func (t *termImpl) PollEvent() Event {
	select {
	case ev := <-t.resizeCh:
		return ev
	case ev := <-t.input.events():
		return ev
	}
}

// EmergencyReset attempts to restore the terminal to a sane state.
// Call from panic recovery when Fini cannot run normally.
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios; best-effort in a
	// crash context
	resetTerminalMode()
}
