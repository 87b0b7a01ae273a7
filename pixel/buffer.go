// Package pixel holds the decoded image buffer the rendering core reads.
package pixel

import (
	"image"
)

// RGBA is one straight-alpha pixel with 8-bit channels
type RGBA struct {
	R, G, B, A uint8
}

// Buffer is an immutable width×height RGBA pixel grid, row-major. It is
// loaded once per image, shared by reference for the session, and replaced
// wholesale when a new image is loaded.
type Buffer struct {
	width  int
	height int
	pix    []RGBA
}

// NewBuffer creates an empty buffer (all pixels transparent black)
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]RGBA, width*height),
	}
}

// FromImage converts a decoded image to a Buffer, unpremultiplying alpha
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy())

	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			b.pix[y*b.width+x] = unpremultiply(r, g, bl, a)
		}
	}
	return b
}

// unpremultiply converts 16-bit premultiplied channels to straight 8-bit
func unpremultiply(r, g, b, a uint32) RGBA {
	if a == 0 {
		return RGBA{}
	}
	return RGBA{
		R: uint8((r * 0xff) / a),
		G: uint8((g * 0xff) / a),
		B: uint8((b * 0xff) / a),
		A: uint8(a >> 8),
	}
}

// Width returns the buffer width in pixels
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels
func (b *Buffer) Height() int { return b.height }

// At returns the pixel at (x, y). Out-of-bounds coordinates return
// transparent black.
func (b *Buffer) At(x, y int) RGBA {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return RGBA{}
	}
	return b.pix[y*b.width+x]
}

// Set writes one pixel; used by tests and synthetic buffers
func (b *Buffer) Set(x, y int, c RGBA) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = c
}

// Fill sets every pixel to c
func (b *Buffer) Fill(c RGBA) {
	for i := range b.pix {
		b.pix[i] = c
	}
}

// Empty reports whether the buffer has zero area
func (b *Buffer) Empty() bool {
	return b.width == 0 || b.height == 0
}
