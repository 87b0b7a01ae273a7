package terminal

// Backend abstracts platform-specific terminal operations so the output
// writer and input parser can be tested against an in-memory fake.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Size returns the current terminal dimensions
	Size() (width, height int)

	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed,
	// or an error occurs. A nil slice with nil error is a poll timeout.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
