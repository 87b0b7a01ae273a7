// Package feedback plays a short audible buzz when an interaction is
// rejected, for example panning past the image edge or an unknown key.
package feedback

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Bell produces the rejection buzz. A disabled or failed-to-initialize
// Bell is a silent no-op, audio must never block interaction.
type Bell struct {
	mu      sync.Mutex
	enabled bool
	ready   bool
}

// NewBell initializes the speaker when enabled is true. Initialization
// failure is logged and leaves the bell silent.
func NewBell(enabled bool) *Bell {
	b := &Bell{enabled: enabled}
	if !enabled {
		return b
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("feedback: audio init failed: %v", err)
		return b
	}
	b.ready = true
	return b
}

// Buzz plays a brief low tone. Safe to call from the event loop; the
// speaker mixes asynchronously.
func (b *Bell) Buzz() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return
	}
	sine, err := generators.SineTone(sampleRate, 220)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(50*time.Millisecond), sine))
}

// Close releases the audio device
func (b *Bell) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		speaker.Close()
		b.ready = false
	}
}
