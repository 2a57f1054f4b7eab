package engine

import (
	"log"
	"time"
)

// Default grid dimensions
const (
	DefaultWidth  = 50
	DefaultHeight = 10
)

type settings struct {
	width, height int
	display       Display
	clock         Clock
	frameInterval time.Duration
	sound         Sound
	logger        *log.Logger
}

// Option configures a Loop
type Option func(*settings)

// WithSize sets the grid dimensions
func WithSize(width, height int) Option {
	return func(s *settings) {
		s.width, s.height = width, height
	}
}

// WithDisplay replaces the default stdin/stdout ANSI terminal
func WithDisplay(d Display) Option {
	return func(s *settings) {
		s.display = d
	}
}

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithFrameInterval paces frames to at most one per interval
// Zero runs frames back to back
func WithFrameInterval(d time.Duration) Option {
	return func(s *settings) {
		s.frameInterval = d
	}
}

// WithSound exposes a tone player to hooks through GameContext.Beep
func WithSound(snd Sound) Option {
	return func(s *settings) {
		s.sound = snd
	}
}

// WithLogger sets the session logger, log.Default() otherwise
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
