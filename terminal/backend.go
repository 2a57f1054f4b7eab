package terminal

import "errors"

var (
	// ErrNotTerminal is returned when raw mode is requested on a non-tty input
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrUnsupported is returned by backends on platforms without termios
	ErrUnsupported = errors.New("terminal backend not supported on this platform")
)

// Backend abstracts platform-specific terminal operations.
// Terminal owns exactly one Backend and drives it from a single goroutine.
type Backend interface {
	// MakeRaw disables echo and line buffering. Calling it while already raw is a no-op
	MakeRaw() error

	// Restore returns the terminal to the mode saved by MakeRaw. No-op when not raw
	Restore() error

	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Poll returns pending input bytes without blocking.
	// Returns nil, nil when nothing is available.
	Poll() ([]byte, error)
}
