package engine

import (
	"github.com/lixenwraith/rich-engine/canvas"
	"github.com/lixenwraith/rich-engine/terminal"
)

// Control toggles process-wide terminal modes; every method is idempotent
type Control interface {
	Clear() error
	HideCursor() error
	ShowCursor() error
	DisableEcho() error
	EnableEcho() error
}

// InputSource polls for at most one pending keystroke without blocking
// ok is false when no key is pending
type InputSource interface {
	PollKey() (key terminal.KeyEvent, ok bool, err error)
}

// Renderer writes a frame snapshot to the display surface
type Renderer interface {
	Render(f canvas.Frame) error
}

// Display is the full collaborator set the loop drives.
// Bind receives the loop dimensions once at construction.
type Display interface {
	Control
	InputSource
	Renderer
	Bind(width, height int) error
}

var (
	_ Display = (*terminal.Terminal)(nil)
)
