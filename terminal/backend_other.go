//go:build !unix

package terminal

import "io"

type stubBackend struct{}

// NewBackend returns a backend that refuses raw mode on platforms without termios
func NewBackend() Backend {
	return stubBackend{}
}

func (stubBackend) MakeRaw() error { return ErrUnsupported }

func (stubBackend) Restore() error { return nil }

func (stubBackend) Write(p []byte) error { return ErrUnsupported }

func (stubBackend) Poll() ([]byte, error) { return nil, io.EOF }

func resetTerminalMode() {}
