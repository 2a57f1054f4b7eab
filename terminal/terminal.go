package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/rich-engine/canvas"
)

// ErrFrameSize is returned when a frame does not match the bound dimensions
var ErrFrameSize = errors.New("frame size does not match terminal binding")

// ErrUnbound is returned when rendering before Bind
var ErrUnbound = errors.New("terminal not bound to dimensions")

// Terminal drives an ANSI terminal through a Backend.
// It is the display for the game loop: mode control, key polling and frame output.
// Not safe for concurrent use; the game loop owns it from a single goroutine.
type Terminal struct {
	backend Backend
	out     *bufio.Writer
	dec     *decoder

	width, height int
	bound         bool
}

// backendWriter adapts Backend.Write to io.Writer for buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// New creates a Terminal on the process stdin/stdout
func New() *Terminal {
	return NewWithBackend(NewBackend())
}

// NewWithBackend creates a Terminal on a caller-provided backend
func NewWithBackend(b Backend) *Terminal {
	return &Terminal{
		backend: b,
		out:     bufio.NewWriterSize(backendWriter{b}, 4096),
		dec:     newDecoder(),
	}
}

// Bind fixes the frame dimensions; rebinding to different dimensions fails
func (t *Terminal) Bind(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrFrameSize, width, height)
	}
	if t.bound && (t.width != width || t.height != height) {
		return fmt.Errorf("%w: bound %dx%d, requested %dx%d", ErrFrameSize, t.width, t.height, width, height)
	}
	t.width, t.height = width, height
	t.bound = true
	return nil
}

// Clear erases the display and homes the cursor
func (t *Terminal) Clear() error {
	return t.writeRaw(csiClear)
}

// HideCursor hides the cursor and disables auto-wrap for the game area
func (t *Terminal) HideCursor() error {
	t.out.Write(csiAutoWrapOff)
	return t.writeRaw(csiCursorHide)
}

// ShowCursor shows the cursor and restores auto-wrap
func (t *Terminal) ShowCursor() error {
	t.out.Write(csiAutoWrapOn)
	t.out.Write(csiSGR0)
	return t.writeRaw(csiCursorShow)
}

// DisableEcho enters raw mode: no echo, no line buffering
func (t *Terminal) DisableEcho() error {
	if err := t.backend.MakeRaw(); err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	return nil
}

// EnableEcho restores the mode saved by DisableEcho
func (t *Terminal) EnableEcho() error {
	if err := t.backend.Restore(); err != nil {
		return fmt.Errorf("restore mode: %w", err)
	}
	return nil
}

// PollKey returns at most one pending keystroke without blocking
func (t *Terminal) PollKey() (KeyEvent, bool, error) {
	if ev, ok := t.dec.next(); ok {
		return ev, true, nil
	}

	data, err := t.backend.Poll()
	if err != nil {
		return KeyEvent{}, false, fmt.Errorf("poll input: %w", err)
	}
	if len(data) == 0 {
		t.dec.idle()
	} else {
		t.dec.feed(data)
	}

	ev, ok := t.dec.next()
	return ev, ok, nil
}

// Render writes the frame row by row from the top-left corner
func (t *Terminal) Render(f canvas.Frame) error {
	if !t.bound {
		return ErrUnbound
	}
	if f.Width() != t.width || f.Height() != t.height {
		return fmt.Errorf("%w: frame %dx%d, bound %dx%d", ErrFrameSize, f.Width(), f.Height(), t.width, t.height)
	}

	for y := 0; y < t.height; y++ {
		writeCursorPos(t.out, 0, y)
		for _, r := range f.Row(y) {
			if r < 0x20 {
				r = ' '
			}
			t.out.WriteRune(r)
		}
	}
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// writeRaw writes and flushes a control sequence
func (t *Terminal) writeRaw(seq []byte) error {
	t.out.Write(seq)
	return t.out.Flush()
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if the game loop could not restore normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
