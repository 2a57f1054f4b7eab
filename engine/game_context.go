package engine

import (
	"log"
	"time"

	"github.com/lixenwraith/rich-engine/canvas"
)

// Sound plays short tones on behalf of a game
type Sound interface {
	Beep(freq float64, d time.Duration) error
}

// GameContext is what hooks see of the running session.
// Accessed only from the loop goroutine; no synchronization required.
type GameContext struct {
	// ===== Immutable After New =====
	Canvas        *canvas.Canvas
	Width, Height int

	// ===== Per Session =====
	SessionID   string // Fresh uuid for every Play call
	FrameNumber int64  // Incremented before each OnUpdate; 0 during OnCreate

	Sound  Sound // Nil when sound is not configured
	Logger *log.Logger
}

// newGameContext creates the context for a loop with a bound canvas
func newGameContext(c *canvas.Canvas, sound Sound, logger *log.Logger) *GameContext {
	return &GameContext{
		Canvas: c,
		Width:  c.Width(),
		Height: c.Height(),
		Sound:  sound,
		Logger: logger,
	}
}

// Beep plays a tone when sound is configured, otherwise does nothing
// Sound failures are logged, not returned: audio is never fatal to a game
func (gc *GameContext) Beep(freq float64, d time.Duration) {
	if gc.Sound == nil {
		return
	}
	if err := gc.Sound.Beep(freq, d); err != nil {
		gc.Logger.Printf("session %s: beep: %v", gc.SessionID, err)
	}
}
