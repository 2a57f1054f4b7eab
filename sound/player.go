// Package sound plays short tones for games through the system audio device.
package sound

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// ErrInvalidTone is returned for non-positive frequency or duration
var ErrInvalidTone = errors.New("tone frequency and duration must be positive")

// Config controls audio output
type Config struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"`      // 0.0 - 1.0
	SampleRate int     `toml:"sample_rate"` // Hz
}

// DefaultConfig returns audio enabled at moderate volume
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Volume:     0.5,
		SampleRate: 44100,
	}
}

// Edge shaping to avoid clicks at tone boundaries
const (
	toneAttack  = 5 * time.Millisecond
	toneRelease = 10 * time.Millisecond
)

// sink consumes finished streamers; the speaker in production
type sink interface {
	Play(s ...beep.Streamer)
}

type speakerSink struct{}

func (speakerSink) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

// Player renders tones and hands them to the audio device.
// A Player without a device is silent and never fails.
type Player struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	sink   sink
	closed bool
}

// New initializes the speaker. On failure it returns a silent player together
// with the error so callers can log it and keep running.
func New(cfg Config) (*Player, error) {
	if !cfg.Enabled {
		return Silent(), nil
	}
	if cfg.SampleRate <= 0 {
		return Silent(), fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}

	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return Silent(), fmt.Errorf("speaker init: %w", err)
	}
	return newWithSink(rate, cfg.Volume, speakerSink{}), nil
}

// Silent returns a player that discards every tone
func Silent() *Player {
	return &Player{}
}

func newWithSink(rate beep.SampleRate, volume float64, s sink) *Player {
	return &Player{
		rate:   rate,
		volume: clampVolume(volume),
		sink:   s,
	}
}

// Enabled reports whether tones reach an audio device
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink != nil && !p.closed
}

// Beep plays a sine tone of freq Hz for d without blocking
func (p *Player) Beep(freq float64, d time.Duration) error {
	if freq <= 0 || d <= 0 {
		return ErrInvalidTone
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink == nil || p.closed {
		return nil
	}

	s, err := Tone(p.rate, freq, d, p.volume)
	if err != nil {
		return err
	}
	p.sink.Play(s)
	return nil
}

// Close releases the audio device; later beeps are dropped
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if _, ok := p.sink.(speakerSink); ok {
		speaker.Close()
	}
}

// Tone builds a finite, edge-shaped sine streamer
func Tone(rate beep.SampleRate, freq float64, d time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %.0fHz: %w", freq, err)
	}
	shaped := newEnvelope(beep.Take(rate.N(d), sine), d, toneAttack, toneRelease, rate)
	return newVolume(shaped, clampVolume(volume)), nil
}

func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// newVolume maps linear volume to beep's log scale; 0 is silent since Log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
