package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZoomInverseLaw(t *testing.T) {
	factors := []float64{1.1, 1.25, 1.5, 2.0, 3.7}

	for _, f := range factors {
		v := New(1000, 800, Grid{Cols: 80, Rows: 24}, DefaultMaxZoom)
		// Move away from the bounds so neither step clamps
		v.ZoomBy(4)
		before := v.Zoom()

		v.ZoomBy(f)
		v.ZoomBy(1 / f)

		require.InDelta(t, before, v.Zoom(), 1e-9, "zoom by %v then 1/%v must round-trip", f, f)
	}
}

func TestZoomSaturatesAtBounds(t *testing.T) {
	v := New(100, 100, Grid{Cols: 50, Rows: 25}, DefaultMaxZoom)

	if sat := v.ZoomBy(1e12); !sat {
		t.Error("expected saturation when zooming far past the cap")
	}
	if v.Zoom() != DefaultMaxZoom {
		t.Errorf("expected zoom %v at cap, got %v", DefaultMaxZoom, v.Zoom())
	}

	// Saturated operations are idempotent: applying again changes nothing
	before := v.Zoom()
	v.ZoomBy(2)
	if v.Zoom() != before {
		t.Errorf("zoom moved past cap: %v -> %v", before, v.Zoom())
	}

	if sat := v.ZoomBy(1e-12); !sat {
		t.Error("expected saturation when zooming far below fit")
	}
	if got, want := v.Zoom(), v.FitZoom(); got != want {
		t.Errorf("expected fit zoom %v at floor, got %v", want, got)
	}
}

func TestZoomRejectsDegenerateFactors(t *testing.T) {
	v := New(100, 100, Grid{Cols: 50, Rows: 25}, DefaultMaxZoom)
	before := v.Zoom()

	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if sat := v.ZoomBy(f); !sat {
			t.Errorf("factor %v: expected saturated result", f)
		}
		if v.Zoom() != before {
			t.Errorf("factor %v changed zoom to %v", f, v.Zoom())
		}
	}
}

func TestVisibleRegionAlwaysContained(t *testing.T) {
	grid := Grid{Cols: 80, Rows: 24}
	v := New(640, 480, grid, DefaultMaxZoom)

	check := func(label string) {
		t.Helper()
		r := v.VisibleRegion(grid)
		if r.Empty() {
			t.Fatalf("%s: empty region", label)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > 640 || r.Y+r.H > 480 {
			t.Errorf("%s: region %+v escapes 640x480 image", label, r)
		}
	}

	check("initial")
	v.ZoomBy(8)
	check("zoomed in")
	v.PanBy(-1e6, -1e6)
	check("panned to top-left corner")
	v.PanBy(1e6, 1e6)
	check("panned to bottom-right corner")
	v.ZoomBy(1e-6)
	check("zoomed out to fit")
}

func TestPanAfterDoubleZoomShiftsHalfRegion(t *testing.T) {
	grid := Grid{Cols: 100, Rows: 50}
	v := New(4000, 4000, grid, DefaultMaxZoom)
	// Start well inside the image so no clamp interferes
	v.ZoomBy(4)

	before := v.VisibleRegion(grid)
	v.ZoomBy(2)
	mid := v.VisibleRegion(grid)

	// Panning by a full screen width of cells moves the region by
	// cols/zoom source pixels, which is half the pre-doubling width
	v.PanBy(float64(grid.Cols), 0)
	after := v.VisibleRegion(grid)

	require.InDelta(t, before.W/2, after.X-mid.X, 1e-9)
}

func TestResetRestoresFit(t *testing.T) {
	grid := Grid{Cols: 80, Rows: 24}
	v := New(800, 600, grid, DefaultMaxZoom)

	fit := v.Zoom()
	v.ZoomBy(5)
	v.PanBy(30, -12)
	v.Reset()

	if v.Zoom() != fit {
		t.Errorf("expected fit zoom %v after reset, got %v", fit, v.Zoom())
	}
	cx, cy := v.Center()
	if cx != 400 || cy != 300 {
		t.Errorf("expected center (400,300) after reset, got (%v,%v)", cx, cy)
	}
}

func TestResizeAwayAndBackPreservesRegion(t *testing.T) {
	grid := Grid{Cols: 120, Rows: 40}
	v := New(1920, 1080, grid, DefaultMaxZoom)
	v.ZoomBy(3)
	v.PanBy(17, -5)

	before := v.VisibleRegion(grid)
	zoom := v.Zoom()
	cx, cy := v.Center()

	v.SetGrid(Grid{Cols: 20, Rows: 6})
	v.SetGrid(grid)

	if v.Zoom() != zoom {
		t.Errorf("zoom changed across resize: %v -> %v", zoom, v.Zoom())
	}
	if gx, gy := v.Center(); gx != cx || gy != cy {
		t.Errorf("center changed across resize: (%v,%v) -> (%v,%v)", cx, cy, gx, gy)
	}
	if after := v.VisibleRegion(grid); after != before {
		t.Errorf("region changed across resize: %+v -> %+v", before, after)
	}
}

func TestSmallImageCollapsesToFullExtent(t *testing.T) {
	grid := Grid{Cols: 2, Rows: 2}
	v := New(4, 4, grid, DefaultMaxZoom)

	r := v.VisibleRegion(grid)
	want := Rect{X: 0, Y: 0, W: 4, H: 4}
	if r != want {
		t.Errorf("expected full image region %+v, got %+v", want, r)
	}
}

func TestPanSaturatesAtEdges(t *testing.T) {
	grid := Grid{Cols: 40, Rows: 20}
	v := New(1000, 1000, grid, DefaultMaxZoom)
	v.ZoomBy(10)

	if sat := v.PanBy(-1e9, 0); !sat {
		t.Error("expected saturation panning past the left edge")
	}
	cx, _ := v.Center()

	// Already clamped: the same command again must not move the center
	v.PanBy(-1e9, 0)
	if gx, _ := v.Center(); gx != cx {
		t.Errorf("center moved past edge: %v -> %v", cx, gx)
	}

	if sat := v.PanBy(1, 0); sat {
		t.Error("panning inward from the edge must not saturate")
	}
}
