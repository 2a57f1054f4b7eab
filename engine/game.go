package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/rich-engine/terminal"
)

// ErrQuit is returned from a hook to end the session.
// It is consumed by the loop and never returned from Play.
var ErrQuit = errors.New("quit requested")

// Quit returns ErrQuit; use as `return engine.Quit()` inside a hook
func Quit() error {
	return ErrQuit
}

// Game is implemented by user games
// Embed BaseGame and override any subset of the hooks
type Game interface {
	// OnCreate runs once before the first frame
	OnCreate(gc *GameContext) error

	// OnUpdate runs once per frame with the time since the previous frame
	// and at most one key (key.IsNone() when nothing was pressed)
	OnUpdate(gc *GameContext, elapsed time.Duration, key terminal.KeyEvent) error

	// OnDestroy runs once after the last frame
	OnDestroy(gc *GameContext) error
}

// BaseGame provides no-op hooks
type BaseGame struct{}

// OnCreate does nothing
func (BaseGame) OnCreate(*GameContext) error { return nil }

// OnUpdate does nothing
func (BaseGame) OnUpdate(*GameContext, time.Duration, terminal.KeyEvent) error { return nil }

// OnDestroy does nothing
func (BaseGame) OnDestroy(*GameContext) error { return nil }

// outcome is the per-hook verdict of the exit guard
type outcome uint8

const (
	keepPlaying outcome = iota
	stopPlaying
)

// checkExit separates the quit signal from real failures
// Other errors pass through, wrapped with the hook name
func checkExit(hook string, err error) (outcome, error) {
	switch {
	case err == nil:
		return keepPlaying, nil
	case errors.Is(err, ErrQuit):
		return stopPlaying, nil
	default:
		return stopPlaying, fmt.Errorf("%s: %w", hook, err)
	}
}
