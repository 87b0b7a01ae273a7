package render

import (
	"github.com/EinSatzMitX/charcoal/terminal"
)

// FrameBuffer is a cols×rows grid of cells, row-major. Cells are pure
// values: a frame is recomputed wholesale, never patched in place.
type FrameBuffer struct {
	cols  int
	rows  int
	cells []terminal.Cell
}

// NewFrameBuffer creates a frame buffer of the given dimensions
func NewFrameBuffer(cols, rows int) *FrameBuffer {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &FrameBuffer{
		cols:  cols,
		rows:  rows,
		cells: make([]terminal.Cell, cols*rows),
	}
}

// Cols returns the buffer width in cells
func (f *FrameBuffer) Cols() int { return f.cols }

// Rows returns the buffer height in cells
func (f *FrameBuffer) Rows() int { return f.rows }

// At returns the cell at (x, y); out-of-bounds returns the zero cell
func (f *FrameBuffer) At(x, y int) terminal.Cell {
	if x < 0 || y < 0 || x >= f.cols || y >= f.rows {
		return terminal.Cell{}
	}
	return f.cells[y*f.cols+x]
}

// Set replaces the cell at (x, y); out-of-bounds is ignored
func (f *FrameBuffer) Set(x, y int, c terminal.Cell) {
	if x < 0 || y < 0 || x >= f.cols || y >= f.rows {
		return
	}
	f.cells[y*f.cols+x] = c
}

// Fill sets every cell to c
func (f *FrameBuffer) Fill(c terminal.Cell) {
	for i := range f.cells {
		f.cells[i] = c
	}
}

// Equal reports whether two buffers have identical dimensions and cells
func (f *FrameBuffer) Equal(other *FrameBuffer) bool {
	if f.cols != other.cols || f.rows != other.rows {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// BufferPair is the previous/current frame pair, modeled as two
// preallocated buffers with a swap index rather than per-frame allocation
type BufferPair struct {
	bufs [2]*FrameBuffer
	cur  int
}

// NewBufferPair allocates both buffers at the given dimensions
func NewBufferPair(cols, rows int) *BufferPair {
	return &BufferPair{
		bufs: [2]*FrameBuffer{
			NewFrameBuffer(cols, rows),
			NewFrameBuffer(cols, rows),
		},
	}
}

// Current returns the buffer being composed into this frame
func (p *BufferPair) Current() *FrameBuffer {
	return p.bufs[p.cur]
}

// Previous returns the last flushed frame
func (p *BufferPair) Previous() *FrameBuffer {
	return p.bufs[1-p.cur]
}

// Swap makes the current buffer the previous one
func (p *BufferPair) Swap() {
	p.cur = 1 - p.cur
}

// Resize recreates both buffers; the pair is rebuilt wholesale on terminal
// resize and the next frame is a full redraw
func (p *BufferPair) Resize(cols, rows int) {
	p.bufs[0] = NewFrameBuffer(cols, rows)
	p.bufs[1] = NewFrameBuffer(cols, rows)
	p.cur = 0
}
