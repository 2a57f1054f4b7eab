// Package tcellterm is a game loop display backed by tcell.
// Use it where the direct ANSI terminal is unsuitable (terminfo quirks, Windows consoles).
package tcellterm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/rich-engine/canvas"
	"github.com/lixenwraith/rich-engine/terminal"
)

var (
	// ErrClosed is returned when the screen is used after EnableEcho finalized it
	ErrClosed = errors.New("tcell screen already finalized")

	// ErrFrameSize is returned when a frame does not match the bound dimensions
	ErrFrameSize = errors.New("frame size does not match screen binding")
)

// eventQueueSize matches typical burst input (paste, key repeat)
const eventQueueSize = 100

// Screen adapts a tcell.Screen to the loop's display contract.
// tcell screens cannot be re-initialized after Fini, so one Screen serves one session.
type Screen struct {
	screen tcell.Screen
	style  tcell.Style

	events chan tcell.Event
	done   chan struct{}
	pump   sync.WaitGroup

	active    bool
	finalized bool

	width, height int
	bound         bool
}

// New creates a Screen on the controlling terminal
func New() (*Screen, error) {
	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(sc), nil
}

// NewWithScreen wraps an existing, not yet initialized tcell screen
func NewWithScreen(sc tcell.Screen) *Screen {
	return &Screen{
		screen: sc,
		style:  tcell.StyleDefault,
		events: make(chan tcell.Event, eventQueueSize),
		done:   make(chan struct{}),
	}
}

// Bind fixes the frame dimensions; rebinding to different dimensions fails
func (s *Screen) Bind(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrFrameSize, width, height)
	}
	if s.bound && (s.width != width || s.height != height) {
		return fmt.Errorf("%w: bound %dx%d, requested %dx%d", ErrFrameSize, s.width, s.height, width, height)
	}
	s.width, s.height = width, height
	s.bound = true
	return nil
}

// init brings the screen up once and starts the event pump
func (s *Screen) init() error {
	if s.finalized {
		return ErrClosed
	}
	if s.active {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	s.active = true

	s.pump.Add(1)
	go func() {
		defer s.pump.Done()
		for {
			// PollEvent returns nil once the screen is finalized
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

// Clear blanks the screen
func (s *Screen) Clear() error {
	if err := s.init(); err != nil {
		return err
	}
	s.screen.Clear()
	s.screen.Show()
	return nil
}

// HideCursor hides the terminal cursor
func (s *Screen) HideCursor() error {
	if err := s.init(); err != nil {
		return err
	}
	s.screen.HideCursor()
	s.screen.Show()
	return nil
}

// ShowCursor parks the cursor below the game area; no-op when not active
func (s *Screen) ShowCursor() error {
	if !s.active {
		return nil
	}
	s.screen.ShowCursor(0, s.height)
	s.screen.Show()
	return nil
}

// DisableEcho initializes tcell, which takes the terminal into raw mode
func (s *Screen) DisableEcho() error {
	return s.init()
}

// EnableEcho finalizes tcell and restores the terminal; no-op when not active
func (s *Screen) EnableEcho() error {
	if !s.active {
		return nil
	}
	s.active = false
	s.finalized = true
	close(s.done)
	s.screen.Fini()
	s.pump.Wait()
	return nil
}

// PollKey returns at most one queued key event without blocking
// Non-key events (resize, focus) are discarded
func (s *Screen) PollKey() (terminal.KeyEvent, bool, error) {
	if s.finalized {
		return terminal.KeyEvent{}, false, ErrClosed
	}
	for {
		select {
		case ev := <-s.events:
			kev, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			key := convertKey(kev.Key(), kev.Rune(), kev.Modifiers())
			if key.IsNone() {
				continue
			}
			return key, true, nil
		default:
			return terminal.KeyEvent{}, false, nil
		}
	}
}

// Render copies the frame into tcell's back buffer and shows it
func (s *Screen) Render(f canvas.Frame) error {
	if !s.bound {
		return terminal.ErrUnbound
	}
	if f.Width() != s.width || f.Height() != s.height {
		return fmt.Errorf("%w: frame %dx%d, bound %dx%d", ErrFrameSize, f.Width(), f.Height(), s.width, s.height)
	}
	if !s.active {
		return ErrClosed
	}

	for y := 0; y < s.height; y++ {
		for x, r := range f.Row(y) {
			s.screen.SetContent(x, y, r, nil, s.style)
		}
	}
	s.screen.Show()
	return nil
}
