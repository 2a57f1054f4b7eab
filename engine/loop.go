package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/rich-engine/canvas"
	"github.com/lixenwraith/rich-engine/terminal"
)

var (
	// ErrInvalidSize is returned by New for non-positive dimensions
	ErrInvalidSize = errors.New("loop dimensions must be positive")

	// ErrAlreadyPlaying is returned when Play is entered while a session is running
	ErrAlreadyPlaying = errors.New("loop is already playing")

	// ErrNilGame is returned by New without a game
	ErrNilGame = errors.New("game is nil")
)

// Loop drives one game: terminal modes, frame timing, input, hooks and rendering
type Loop struct {
	game    Game
	canvas  *canvas.Canvas
	display Display
	clock   Clock
	logger  *log.Logger
	gc      *GameContext

	frameInterval time.Duration

	playing atomic.Bool
	frames  int64
}

// New creates a loop. The single (width, height) pair sizes the canvas and is
// bound into the display here; it never changes afterwards.
func New(game Game, opts ...Option) (*Loop, error) {
	if game == nil {
		return nil, ErrNilGame
	}

	s := settings{
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.width <= 0 || s.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, s.width, s.height)
	}
	if s.frameInterval < 0 {
		s.frameInterval = 0
	}
	if s.display == nil {
		s.display = terminal.New()
	}
	if s.clock == nil {
		s.clock = NewSystemClock()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	c, err := canvas.New(s.width, s.height)
	if err != nil {
		return nil, err
	}
	if err := s.display.Bind(s.width, s.height); err != nil {
		return nil, fmt.Errorf("bind display: %w", err)
	}

	return &Loop{
		game:          game,
		canvas:        c,
		display:       s.display,
		clock:         s.clock,
		logger:        s.logger,
		gc:            newGameContext(c, s.sound, s.logger),
		frameInterval: s.frameInterval,
	}, nil
}

// Play constructs a loop and runs it to completion
func Play(ctx context.Context, game Game, opts ...Option) error {
	l, err := New(game, opts...)
	if err != nil {
		return err
	}
	return l.Play(ctx)
}

// Canvas returns the grid hooks draw into
func (l *Loop) Canvas() *canvas.Canvas {
	return l.canvas
}

// Frames returns the number of frames run by the last or current session
func (l *Loop) Frames() int64 {
	return l.frames
}

// Play runs the session until a hook returns ErrQuit, ctx is cancelled, or an
// error aborts it. Terminal modes are restored on every exit path, panics included.
// Cancellation is an external stop: OnDestroy still runs and Play returns nil.
//
// A hook error is returned wrapped once with the hook name ("on_update: ...");
// errors.Is and errors.Unwrap reach the exact error the hook returned.
func (l *Loop) Play(ctx context.Context) (err error) {
	if !l.playing.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer l.playing.Store(false)

	l.frames = 0
	l.gc.FrameNumber = 0
	l.gc.SessionID = uuid.NewString()
	l.logger.Printf("session %s: start %dx%d", l.gc.SessionID, l.gc.Width, l.gc.Height)

	// Registered before acquisition so a partial setup is still undone
	defer func() {
		if rerr := l.restore(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		l.logger.Printf("session %s: stop after %d frames", l.gc.SessionID, l.frames)
	}()

	if err := l.acquire(); err != nil {
		return err
	}

	out, err := checkExit("on_create", l.game.OnCreate(l.gc))
	if err != nil {
		return err
	}

	if out == keepPlaying {
		if err := l.run(ctx); err != nil {
			return err
		}
	}

	if _, err := checkExit("on_destroy", l.game.OnDestroy(l.gc)); err != nil {
		return err
	}
	return nil
}

// run is the frame loop; returns nil on quit or cancellation
func (l *Loop) run(ctx context.Context) error {
	previous := l.clock.Now()

	for ctx.Err() == nil {
		current := l.clock.Now()
		elapsed := current.Sub(previous)
		if elapsed < 0 {
			elapsed = 0
		}
		previous = current

		key, _, err := l.display.PollKey()
		if err != nil {
			return fmt.Errorf("poll key: %w", err)
		}

		l.frames++
		l.gc.FrameNumber = l.frames
		out, err := checkExit("on_update", l.game.OnUpdate(l.gc, elapsed, key))
		if err != nil {
			return err
		}

		// The exit frame is rendered too
		if err := l.display.Render(l.canvas.Snapshot()); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		if out == stopPlaying {
			return nil
		}
		l.pace(current)
	}
	return nil
}

// pace sleeps off the remainder of the frame interval
func (l *Loop) pace(frameStart time.Time) {
	if l.frameInterval <= 0 {
		return
	}
	if spent := l.clock.Now().Sub(frameStart); spent < l.frameInterval {
		l.clock.Sleep(l.frameInterval - spent)
	}
}

// acquire enters raw terminal mode
func (l *Loop) acquire() error {
	if err := l.display.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := l.display.HideCursor(); err != nil {
		return fmt.Errorf("hide cursor: %w", err)
	}
	if err := l.display.DisableEcho(); err != nil {
		return fmt.Errorf("disable echo: %w", err)
	}
	return nil
}

// restore undoes acquire; both steps run even if the first fails
func (l *Loop) restore() error {
	var errs []error
	if err := l.display.ShowCursor(); err != nil {
		errs = append(errs, fmt.Errorf("show cursor: %w", err))
	}
	if err := l.display.EnableEcho(); err != nil {
		errs = append(errs, fmt.Errorf("enable echo: %w", err))
	}
	return errors.Join(errs...)
}
