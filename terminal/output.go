package terminal

import (
	"bufio"
	"io"
)

// outputWriter emits positioned cell updates as ANSI sequences. The render
// loop decides which cells changed; this layer only minimizes the bytes for
// the cells it is handed: cursor moves are elided for runs, style sequences
// are coalesced and emitted only on change.
type outputWriter struct {
	writer  *bufio.Writer
	profile Profile

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    Color
	lastBg    Color
	lastValid bool
}

func newOutputWriter(w io.Writer, profile Profile) *outputWriter {
	return &outputWriter{
		writer:  bufio.NewWriterSize(w, 131072), // 128KB buffer
		profile: profile,
	}
}

// setCell positions the cursor and writes one cell
func (o *outputWriter) setCell(x, y int, c Cell) {
	w := o.writer

	if !o.cursorValid || x != o.cursorX || y != o.cursorY {
		// Non-destructive forward movement when skipping cells in a row
		if o.cursorValid && y == o.cursorY && x > o.cursorX {
			writeCursorForward(w, x-o.cursorX)
		} else {
			writeCursorPos(w, x, y)
		}
		o.cursorX = x
		o.cursorY = y
		o.cursorValid = true
	}

	o.writeStyle(c.Fg, c.Bg)

	r := c.Rune
	if r == 0 {
		r = ' '
	}
	if r < 0x80 {
		w.WriteByte(byte(r))
	} else {
		w.WriteRune(r)
	}
	o.cursorX++
}

// flush pushes buffered output to the terminal and resets style state so
// the next frame starts from a known baseline
func (o *outputWriter) flush() {
	o.writer.Write(csiSGR0)
	o.lastValid = false
	o.writer.Flush()
}

// writeStyle emits a combined SGR sequence when fg or bg changed
func (o *outputWriter) writeStyle(fg, bg Color) {
	fgChanged := !o.lastValid || fg != o.lastFg
	bgChanged := !o.lastValid || bg != o.lastBg

	if !fgChanged && !bgChanged {
		return
	}

	w := o.writer

	if fgChanged && bgChanged {
		w.Write(csi)
		w.WriteByte('0')
		o.writeFgInline(w, fg)
		o.writeBgInline(w, bg)
		w.WriteByte('m')
	} else if fgChanged {
		o.writeFgFull(w, fg)
	} else {
		o.writeBgFull(w, bg)
	}

	o.lastFg = fg
	o.lastBg = bg
	o.lastValid = true
}

// writeFgInline writes fg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputWriter) writeFgInline(w *bufio.Writer, fg Color) {
	switch fg.Kind {
	case ColorIndexed:
		w.Write([]byte(";38;5;"))
		writeInt(w, int(fg.Index))
	case ColorRGB:
		w.Write([]byte(";38;2;"))
		writeInt(w, int(fg.RGB.R))
		w.WriteByte(';')
		writeInt(w, int(fg.RGB.G))
		w.WriteByte(';')
		writeInt(w, int(fg.RGB.B))
	case ColorDefault:
		w.Write([]byte(";39"))
	}
}

// writeBgInline writes bg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputWriter) writeBgInline(w *bufio.Writer, bg Color) {
	switch bg.Kind {
	case ColorIndexed:
		w.Write([]byte(";48;5;"))
		writeInt(w, int(bg.Index))
	case ColorRGB:
		w.Write([]byte(";48;2;"))
		writeInt(w, int(bg.RGB.R))
		w.WriteByte(';')
		writeInt(w, int(bg.RGB.G))
		w.WriteByte(';')
		writeInt(w, int(bg.RGB.B))
	case ColorDefault:
		w.Write([]byte(";49"))
	}
}

// writeFgFull writes a complete fg color sequence
func (o *outputWriter) writeFgFull(w *bufio.Writer, fg Color) {
	switch fg.Kind {
	case ColorIndexed:
		w.Write(csiFg256)
		writeInt(w, int(fg.Index))
		w.WriteByte('m')
	case ColorRGB:
		w.Write(csiFgRGB)
		writeInt(w, int(fg.RGB.R))
		w.WriteByte(';')
		writeInt(w, int(fg.RGB.G))
		w.WriteByte(';')
		writeInt(w, int(fg.RGB.B))
		w.WriteByte('m')
	case ColorDefault:
		w.Write(csiDefaultFg)
	}
}

// writeBgFull writes a complete bg color sequence
func (o *outputWriter) writeBgFull(w *bufio.Writer, bg Color) {
	switch bg.Kind {
	case ColorIndexed:
		w.Write(csiBg256)
		writeInt(w, int(bg.Index))
		w.WriteByte('m')
	case ColorRGB:
		w.Write(csiBgRGB)
		writeInt(w, int(bg.RGB.R))
		w.WriteByte(';')
		writeInt(w, int(bg.RGB.G))
		w.WriteByte(';')
		writeInt(w, int(bg.RGB.B))
		w.WriteByte('m')
	case ColorDefault:
		w.Write(csiDefaultBg)
	}
}

// clear erases the screen and resets tracked state
func (o *outputWriter) clear() {
	w := o.writer
	w.Write(csiSGR0)
	w.Write(csiClear)
	o.lastValid = false
	o.cursorValid = false
	w.Flush()
}

// invalidateCursor marks the cursor position as unknown
func (o *outputWriter) invalidateCursor() {
	o.cursorValid = false
}
