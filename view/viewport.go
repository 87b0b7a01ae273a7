// Package view maps terminal-grid coordinates onto source-image pixels,
// parameterized by zoom and pan.
package view

import (
	"math"
)

// CellAspect is the number of vertically stacked samples one terminal cell
// represents. Half-block rendering splits each cell into a top and bottom
// sample, which also compensates for the roughly 2:1 height-to-width ratio
// of monospaced glyphs.
const CellAspect = 2.0

// DefaultMaxZoom caps magnification at this many samples per source pixel,
// avoiding degenerate single-pixel-covers-whole-screen states.
const DefaultMaxZoom = 32.0

// Grid is the terminal cell grid the viewport projects onto
type Grid struct {
	Cols int
	Rows int
}

// Samples returns the grid extent in sample space (cols × rows*2)
func (g Grid) Samples() (w, h float64) {
	return float64(g.Cols), float64(g.Rows) * CellAspect
}

// Rect is an axis-aligned rectangle in source-pixel space
type Rect struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the rect has zero area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Viewport tracks zoom and pan over a source image. Zoom is expressed in
// samples per source pixel: zoom 1.0 maps one source pixel to one sample,
// larger values magnify. All operations clamp; there is no error path for
// out-of-range zoom or pan, they saturate at the bounds.
type Viewport struct {
	imgW, imgH float64
	grid       Grid

	zoom    float64
	centerX float64
	centerY float64

	maxZoom float64
}

// New creates a viewport at fit-to-screen zoom, centered on the image
func New(imgW, imgH int, grid Grid, maxZoom float64) *Viewport {
	if maxZoom <= 0 {
		maxZoom = DefaultMaxZoom
	}
	v := &Viewport{
		imgW:    math.Max(1, float64(imgW)),
		imgH:    math.Max(1, float64(imgH)),
		grid:    grid,
		maxZoom: maxZoom,
	}
	v.Reset()
	return v
}

// SetGrid records the grid after a terminal resize. State is deliberately
// not re-clamped here: resizing away and back must reproduce the exact
// previous frame, so clamping happens in VisibleRegion and in the mutating
// operations only.
func (v *Viewport) SetGrid(grid Grid) {
	v.grid = grid
}

// Grid returns the current terminal grid
func (v *Viewport) Grid() Grid {
	return v.grid
}

// Zoom returns the current zoom factor
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// Center returns the current center in source-pixel coordinates
func (v *Viewport) Center() (x, y float64) {
	return v.centerX, v.centerY
}

// ImageSize returns the source image dimensions in pixels
func (v *Viewport) ImageSize() (w, h float64) {
	return v.imgW, v.imgH
}

// FitZoom returns the zoom that fits the whole image in the grid. This is
// the lower zoom bound: zooming out further than whole-image view is never
// useful.
func (v *Viewport) FitZoom() float64 {
	sw, sh := v.grid.Samples()
	if sw <= 0 || sh <= 0 {
		return 1
	}
	return math.Min(sw/v.imgW, sh/v.imgH)
}

// zoomBounds returns the clamp range for zoom. The magnification cap is
// raised to the fit zoom when the image is smaller than the grid.
func (v *Viewport) zoomBounds() (lo, hi float64) {
	lo = v.FitZoom()
	hi = math.Max(v.maxZoom, lo)
	return lo, hi
}

// Reset restores fit-to-screen zoom and centers the image
func (v *Viewport) Reset() {
	v.zoom = v.FitZoom()
	v.centerX = v.imgW / 2
	v.centerY = v.imgH / 2
}

// ZoomBy multiplies the zoom factor, saturating at the bounds. Multiplying
// rather than adding makes ZoomBy(f) followed by ZoomBy(1/f) an identity
// inside the bounds. Reports whether the operation saturated.
func (v *Viewport) ZoomBy(factor float64) (saturated bool) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return true
	}

	lo, hi := v.zoomBounds()
	target := v.zoom * factor
	clamped := math.Min(math.Max(target, lo), hi)
	saturated = clamped != target

	v.zoom = clamped
	v.clampCenter()
	return saturated
}

// PanBy shifts the center by (dx, dy) terminal cells. Deltas are scaled by
// the current zoom so panning moves at constant apparent speed regardless
// of magnification. Reports whether the operation saturated at an edge.
func (v *Viewport) PanBy(dxCells, dyCells float64) (saturated bool) {
	wantX := v.centerX + dxCells/v.zoom
	wantY := v.centerY + dyCells*CellAspect/v.zoom

	v.centerX = wantX
	v.centerY = wantY
	v.clampCenter()

	return v.centerX != wantX || v.centerY != wantY
}

// PanTo moves the center to an absolute source-pixel position, clamped
func (v *Viewport) PanTo(x, y float64) {
	v.centerX = x
	v.centerY = y
	v.clampCenter()
}

// clampCenter keeps the visible extents inside the image. An axis whose
// extent exceeds the image locks to the image center.
func (v *Viewport) clampCenter() {
	sw, sh := v.grid.Samples()
	extW := sw / v.zoom
	extH := sh / v.zoom

	v.centerX = clampAxis(v.centerX, extW, v.imgW)
	v.centerY = clampAxis(v.centerY, extH, v.imgH)
}

func clampAxis(center, extent, size float64) float64 {
	if extent >= size {
		return size / 2
	}
	half := extent / 2
	return math.Min(math.Max(center, half), size-half)
}

// VisibleRegion returns the source-pixel rectangle mapped onto the grid.
// Each axis is clamped into the image independently; an axis whose extent
// exceeds the image collapses to the full image extent, so the region is
// always fully contained in the image and never has zero area.
func (v *Viewport) VisibleRegion(grid Grid) Rect {
	sw := float64(grid.Cols)
	sh := float64(grid.Rows) * CellAspect
	if sw <= 0 || sh <= 0 {
		return Rect{}
	}

	x, w := clampExtent(v.centerX, sw/v.zoom, v.imgW)
	y, h := clampExtent(v.centerY, sh/v.zoom, v.imgH)
	return Rect{X: x, Y: y, W: w, H: h}
}

func clampExtent(center, extent, size float64) (pos, length float64) {
	if extent >= size {
		return 0, size
	}
	pos = clampAxis(center, extent, size) - extent/2
	return pos, extent
}
