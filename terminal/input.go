package terminal

import (
	"log"
	"sync"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError
}

// inputReader handles raw stdin parsing
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for stream assembly; escape sequences and UTF-8
	// runes may arrive split across reads
	buf []byte
}

// newInputReader creates a new input reader
func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

// events returns the event channel
func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

// readLoop is the main input reading goroutine
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Poll timeout or stop; a lone pending ESC is a standalone
			// Escape press, not the start of a sequence
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)
		consumed := r.parseInput(r.buf)

		if consumed > 0 {
			if consumed >= len(r.buf) {
				r.buf = r.buf[:0]
			} else {
				copy(r.buf, r.buf[consumed:])
				r.buf = r.buf[:len(r.buf)-consumed]
			}
		}
	}
}

// parseInput consumes as many complete events as possible from data and
// returns the number of bytes consumed. Incomplete trailing sequences are
// left for the next read.
func (r *inputReader) parseInput(data []byte) int {
	pos := 0

	for pos < len(data) {
		n, ev, ok := parseOne(data[pos:])
		if n == 0 {
			// Incomplete, wait for more bytes
			break
		}
		pos += n
		if ok {
			r.sendEvent(ev)
		}
	}

	return pos
}

// parseOne parses a single event from the head of data. Returns the bytes
// consumed (0 if incomplete), the event, and whether an event was produced.
// Malformed sequences are consumed and dropped; per the input contract they
// are logged, never propagated.
func parseOne(data []byte) (int, Event, bool) {
	b := data[0]

	if b == 0x1b {
		return parseEscape(data)
	}

	// Control bytes
	switch b {
	case 0x0d, 0x0a:
		return 1, Event{Type: EventKey, Key: KeyEnter}, true
	case 0x09:
		return 1, Event{Type: EventKey, Key: KeyTab}, true
	case 0x7f, 0x08:
		return 1, Event{Type: EventKey, Key: KeyBackspace}, true
	case 0x03:
		return 1, Event{Type: EventKey, Key: KeyCtrlC}, true
	case 0x04:
		return 1, Event{Type: EventKey, Key: KeyCtrlD}, true
	case 0x0c:
		return 1, Event{Type: EventKey, Key: KeyCtrlL}, true
	case 0x20:
		return 1, Event{Type: EventKey, Key: KeySpace, Rune: ' '}, true
	}

	if b < 0x20 {
		// Unmapped control byte, drop
		log.Printf("terminal: dropping unrecognized control byte 0x%02x", b)
		return 1, Event{}, false
	}

	// UTF-8 rune
	ru, size := utf8.DecodeRune(data)
	if ru == utf8.RuneError && size <= 1 {
		if !utf8.FullRune(data) && len(data) < utf8.UTFMax {
			// Possibly split across reads
			return 0, Event{}, false
		}
		log.Printf("terminal: dropping invalid UTF-8 byte 0x%02x", b)
		return 1, Event{}, false
	}
	return size, Event{Type: EventKey, Key: KeyRune, Rune: ru}, true
}

// parseEscape parses sequences starting with ESC
func parseEscape(data []byte) (int, Event, bool) {
	if len(data) == 1 {
		// Might be a standalone Escape or a sequence start; resolved by
		// the poll-timeout path in readLoop
		return 0, Event{}, false
	}

	switch data[1] {
	case '[':
		return parseCSI(data)
	case 'O':
		if len(data) < 3 {
			return 0, Event{}, false
		}
		for _, s := range ss3Sequences {
			if s.seq[0] == data[2] {
				return 3, Event{Type: EventKey, Key: s.key, Modifiers: s.mod}, true
			}
		}
		log.Printf("terminal: dropping unrecognized SS3 sequence ESC O %c", data[2])
		return 3, Event{}, false
	default:
		// Alt+key
		ru, size := utf8.DecodeRune(data[1:])
		if ru == utf8.RuneError && size <= 1 {
			return 1, Event{Type: EventKey, Key: KeyEscape}, true
		}
		return 1 + size, Event{Type: EventKey, Key: KeyRune, Rune: ru, Modifiers: ModAlt}, true
	}
}

// parseCSI parses ESC [ sequences, terminated by a byte in [0x40, 0x7e]
func parseCSI(data []byte) (int, Event, bool) {
	// Find the final byte
	end := -1
	for i := 2; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7e {
			end = i
			break
		}
		if i-2 > 16 {
			// Runaway sequence, give up on it
			log.Printf("terminal: dropping overlong CSI sequence")
			return i, Event{}, false
		}
	}
	if end < 0 {
		return 0, Event{}, false
	}

	seq := string(data[2 : end+1])
	for _, s := range csiSequences {
		if s.seq == seq {
			return end + 1, Event{Type: EventKey, Key: s.key, Modifiers: s.mod}, true
		}
	}

	log.Printf("terminal: dropping unrecognized CSI sequence %q", seq)
	return end + 1, Event{}, false
}

// sendEvent delivers an event, dropping if the channel is full
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
	}
}
