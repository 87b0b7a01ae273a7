package viewer

import (
	"testing"

	"github.com/EinSatzMitX/charcoal/config"
	"github.com/EinSatzMitX/charcoal/feedback"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/view"
)

func newTestDispatcher() (*Dispatcher, *view.Viewport) {
	vp := view.New(640, 480, view.Grid{Cols: 80, Rows: 24}, view.DefaultMaxZoom)
	d := NewDispatcher(vp, config.Default(), feedback.NewBell(false))
	return d, vp
}

func keyEvent(k terminal.Key) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: k}
}

func runeEvent(r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r}
}

func TestQuitTransitions(t *testing.T) {
	cases := []struct {
		name string
		ev   terminal.Event
	}{
		{"q rune", runeEvent('q')},
		{"escape", keyEvent(terminal.KeyEscape)},
		{"ctrl-c", keyEvent(terminal.KeyCtrlC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newTestDispatcher()
			d.HandleKey(tc.ev)
			if d.State() != StateQuitting {
				t.Errorf("expected Quitting, got %v", d.State())
			}
			// Quitting is terminal: further input is ignored
			d.HandleKey(runeEvent('0'))
			if d.State() != StateQuitting {
				t.Error("input after quit changed state")
			}
		})
	}
}

func TestUnknownKeyIsNoop(t *testing.T) {
	d, vp := newTestDispatcher()
	zoom := vp.Zoom()
	cx, cy := vp.Center()

	d.HandleKey(runeEvent('x'))

	if d.State() != StateIdle {
		t.Errorf("unknown key changed state to %v", d.State())
	}
	if d.Dirty() {
		t.Error("unknown key set the dirty flag")
	}
	if vp.Zoom() != zoom {
		t.Error("unknown key changed zoom")
	}
	if gx, gy := vp.Center(); gx != cx || gy != cy {
		t.Error("unknown key changed center")
	}
}

func TestZoomKeysSetDirty(t *testing.T) {
	d, vp := newTestDispatcher()
	zoom := vp.Zoom()

	d.HandleKey(runeEvent('+'))
	if !d.Dirty() {
		t.Error("zoom did not set the dirty flag")
	}
	if vp.Zoom() <= zoom {
		t.Errorf("expected zoom in, got %v -> %v", zoom, vp.Zoom())
	}

	// Dirty is consumed on read
	if d.Dirty() {
		t.Error("dirty flag not cleared after read")
	}
}

func TestPanKeysMoveCenter(t *testing.T) {
	d, vp := newTestDispatcher()
	vp.ZoomBy(8)
	cx, _ := vp.Center()

	d.HandleKey(runeEvent('l'))
	gx, _ := vp.Center()
	if gx <= cx {
		t.Errorf("expected pan right, center %v -> %v", cx, gx)
	}

	d.HandleKey(runeEvent('h'))
	bx, _ := vp.Center()
	if bx != cx {
		t.Errorf("pan right then left must return to %v, got %v", cx, bx)
	}
}

func TestRepeatedSaturatedPanIsStable(t *testing.T) {
	d, vp := newTestDispatcher()
	vp.ZoomBy(8)

	for i := 0; i < 200; i++ {
		d.HandleKey(runeEvent('h'))
	}
	cx, cy := vp.Center()

	d.HandleKey(runeEvent('h'))
	if gx, gy := vp.Center(); gx != cx || gy != cy {
		t.Error("pan at the edge moved the already-clamped center")
	}
}

func TestResetKey(t *testing.T) {
	d, vp := newTestDispatcher()
	fit := vp.Zoom()

	d.HandleKey(runeEvent('+'))
	d.HandleKey(runeEvent('l'))
	d.HandleKey(runeEvent('0'))

	if vp.Zoom() != fit {
		t.Errorf("expected fit zoom %v after reset, got %v", fit, vp.Zoom())
	}
}

func TestCommandQuit(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent(':'))
	if d.State() != StateCommand {
		t.Fatalf("expected Command state, got %v", d.State())
	}
	if d.CommandLine() != ":" {
		t.Errorf("expected %q, got %q", ":", d.CommandLine())
	}

	d.HandleKey(runeEvent('q'))
	d.HandleKey(keyEvent(terminal.KeyEnter))

	if d.State() != StateQuitting {
		t.Errorf("expected Quitting after :q, got %v", d.State())
	}
}

func TestCommandEdit(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent(':'))
	for _, r := range "e /tmp/cat.png" {
		if r == ' ' {
			d.HandleKey(keyEvent(terminal.KeySpace))
			continue
		}
		d.HandleKey(runeEvent(r))
	}
	d.HandleKey(keyEvent(terminal.KeyEnter))

	path, ok := d.TakeLoad()
	if !ok {
		t.Fatal("expected a pending load request")
	}
	if path != "/tmp/cat.png" {
		t.Errorf("expected path %q, got %q", "/tmp/cat.png", path)
	}
	if _, ok := d.TakeLoad(); ok {
		t.Error("load request not cleared on read")
	}
}

func TestCommandEscapeCancels(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent(':'))
	d.HandleKey(runeEvent('q'))
	d.HandleKey(keyEvent(terminal.KeyEscape))

	if d.State() != StateIdle {
		t.Errorf("expected Idle after cancel, got %v", d.State())
	}
	if d.CommandLine() != "" {
		t.Errorf("expected empty command line, got %q", d.CommandLine())
	}
}

func TestCommandBackspaceOnEmptyExits(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent(':'))
	d.HandleKey(keyEvent(terminal.KeyBackspace))

	if d.State() != StateIdle {
		t.Errorf("expected Idle, got %v", d.State())
	}
}

func TestUnknownCommandSetsMessage(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent(':'))
	d.HandleKey(runeEvent('z'))
	d.HandleKey(runeEvent('z'))
	d.HandleKey(keyEvent(terminal.KeyEnter))

	if d.State() != StateIdle {
		t.Errorf("expected Idle, got %v", d.State())
	}
	if d.Message() == "" {
		t.Error("expected an error message for an unknown command")
	}
	if _, ok := d.TakeLoad(); ok {
		t.Error("unknown command produced a load request")
	}
}

func TestReloadKey(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent('r'))
	path, ok := d.TakeLoad()
	if !ok {
		t.Fatal("expected a pending reload")
	}
	if path != "" {
		t.Errorf("reload must carry an empty path, got %q", path)
	}
}

func TestEdgeJumps(t *testing.T) {
	d, vp := newTestDispatcher()
	vp.ZoomBy(8)

	d.HandleKey(keyEvent(terminal.KeyHome))
	r := vp.VisibleRegion(vp.Grid())
	if r.X != 0 {
		t.Errorf("Home must reach the left edge, region x=%v", r.X)
	}

	d.HandleKey(keyEvent(terminal.KeyEnd))
	r = vp.VisibleRegion(vp.Grid())
	if r.X+r.W != 640 {
		t.Errorf("End must reach the right edge, region ends at %v", r.X+r.W)
	}

	d.HandleKey(runeEvent('G'))
	r = vp.VisibleRegion(vp.Grid())
	if r.Y+r.H != 480 {
		t.Errorf("G must reach the bottom edge, region ends at %v", r.Y+r.H)
	}

	d.HandleKey(runeEvent('g'))
	r = vp.VisibleRegion(vp.Grid())
	if r.Y != 0 {
		t.Errorf("g must reach the top edge, region y=%v", r.Y)
	}
}

func TestStatusToggleRequest(t *testing.T) {
	d, _ := newTestDispatcher()

	d.HandleKey(runeEvent('s'))
	if !d.TakeToggleStatus() {
		t.Fatal("expected a pending status toggle")
	}
	if d.TakeToggleStatus() {
		t.Error("toggle request not cleared on read")
	}
}

func TestShiftArrowsUseLargeStep(t *testing.T) {
	d, vp := newTestDispatcher()
	vp.ZoomBy(8)

	cx, _ := vp.Center()
	d.HandleKey(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRight, Modifiers: terminal.ModShift})
	largeDx, _ := vp.Center()

	vp.Reset()
	vp.ZoomBy(8)
	d.HandleKey(keyEvent(terminal.KeyRight))
	smallDx, _ := vp.Center()

	if largeDx-cx <= smallDx-cx {
		t.Errorf("shifted pan (%v) must exceed plain pan (%v)", largeDx-cx, smallDx-cx)
	}
}
