package viewer

import (
	"testing"

	"github.com/EinSatzMitX/charcoal/config"
	"github.com/EinSatzMitX/charcoal/feedback"
	"github.com/EinSatzMitX/charcoal/pixel"
	"github.com/EinSatzMitX/charcoal/terminal"
)

// fakeTerm serves scripted events and records cell writes. When the
// script runs out it quits the loop.
type fakeTerm struct {
	profile terminal.Profile
	cols    int
	rows    int

	script []terminal.Event

	setCalls   []setCall
	flushes    int
	clears     int
	flushSizes []int
	pending    int
}

type setCall struct {
	x, y int
	cell terminal.Cell
}

func newFakeTerm(cols, rows int, script ...terminal.Event) *fakeTerm {
	return &fakeTerm{
		profile: terminal.ProfileTrueColor,
		cols:    cols,
		rows:    rows,
		script:  script,
	}
}

func (f *fakeTerm) Init() error               { return nil }
func (f *fakeTerm) Fini()                     {}
func (f *fakeTerm) Size() (int, int)          { return f.cols, f.rows }
func (f *fakeTerm) Profile() terminal.Profile { return f.profile }
func (f *fakeTerm) Clear()                    { f.clears++ }

func (f *fakeTerm) SetCell(x, y int, c terminal.Cell) {
	f.setCalls = append(f.setCalls, setCall{x: x, y: y, cell: c})
	f.pending++
}

func (f *fakeTerm) Flush() {
	f.flushSizes = append(f.flushSizes, f.pending)
	f.pending = 0
	f.flushes++
}

func (f *fakeTerm) PollEvent() terminal.Event {
	if len(f.script) == 0 {
		return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'}
	}
	ev := f.script[0]
	f.script = f.script[1:]
	return ev
}

func redImage(w, h int) *pixel.Buffer {
	img := pixel.NewBuffer(w, h)
	img.Fill(pixel.RGBA{R: 255, A: 255})
	return img
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ShowStatus = false
	return cfg
}

func TestRunFlushesInitialFrameInFull(t *testing.T) {
	term := newFakeTerm(4, 3)
	v := New(term, testConfig(), feedback.NewBell(false), "red.png", redImage(8, 6))

	if err := v.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if term.flushes < 1 {
		t.Fatal("expected at least one flush")
	}
	if term.flushSizes[0] != 4*3 {
		t.Errorf("initial frame must flush every cell, got %d of %d", term.flushSizes[0], 4*3)
	}
}

func TestRunDiffEmitsNothingForIdenticalFrame(t *testing.T) {
	// Panning at fit zoom saturates immediately: the region is unchanged,
	// the recomposed frame is identical, and the diff emits zero cells
	term := newFakeTerm(4, 3,
		terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'l'},
	)
	v := New(term, testConfig(), feedback.NewBell(false), "red.png", redImage(8, 6))

	if err := v.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(term.flushSizes) < 2 {
		t.Fatalf("expected a diff flush after the pan, got %d flushes", len(term.flushSizes))
	}
	if term.flushSizes[1] != 0 {
		t.Errorf("identical frame must emit zero cells, got %d", term.flushSizes[1])
	}
}

func TestRunResizeForcesFullRedraw(t *testing.T) {
	term := newFakeTerm(4, 3,
		terminal.Event{Type: terminal.EventResize, Width: 6, Height: 5},
	)
	v := New(term, testConfig(), feedback.NewBell(false), "red.png", redImage(8, 6))

	if err := v.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if term.clears != 1 {
		t.Errorf("expected one clear on resize, got %d", term.clears)
	}
	if len(term.flushSizes) < 2 {
		t.Fatalf("expected a flush after resize, got %d", len(term.flushSizes))
	}
	if term.flushSizes[1] != 6*5 {
		t.Errorf("resize must redraw every cell, got %d of %d", term.flushSizes[1], 6*5)
	}
}

func TestRunQuitReturnsNil(t *testing.T) {
	term := newFakeTerm(4, 3) // empty script quits immediately
	v := New(term, testConfig(), feedback.NewBell(false), "red.png", redImage(8, 6))

	if err := v.Run(); err != nil {
		t.Errorf("quit must return nil, got %v", err)
	}
}

func TestRunLoadFailureKeepsImage(t *testing.T) {
	script := []terminal.Event{
		{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: ':'},
		{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'e'},
		{Type: terminal.EventKey, Key: terminal.KeySpace},
	}
	for _, r := range "/no/such/file.png" {
		script = append(script, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r})
	}
	script = append(script, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})

	term := newFakeTerm(4, 3, script...)
	v := New(term, testConfig(), feedback.NewBell(false), "red.png", redImage(8, 6))

	if err := v.Run(); err != nil {
		t.Fatalf("a failed load must not end the session: %v", err)
	}
	if v.img == nil || v.img.At(0, 0).R != 255 {
		t.Error("failed load must keep the previous image")
	}
	if v.path != "red.png" {
		t.Errorf("failed load must keep the previous path, got %q", v.path)
	}
}
