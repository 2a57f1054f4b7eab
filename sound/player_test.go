package sound

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// captureSink collects streamers instead of playing them
type captureSink struct {
	played []beep.Streamer
}

func (c *captureSink) Play(s ...beep.Streamer) {
	c.played = append(c.played, s...)
}

// drain streams s to completion and returns all samples
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestBeepPlaysTone(t *testing.T) {
	rate := beep.SampleRate(44100)
	sink := &captureSink{}
	p := newWithSink(rate, 1.0, sink)

	if err := p.Beep(880, 50*time.Millisecond); err != nil {
		t.Fatalf("Beep() error = %v", err)
	}
	if len(sink.played) != 1 {
		t.Fatalf("Expected 1 streamer, got %d", len(sink.played))
	}

	samples := drain(sink.played[0])
	if want := rate.N(50 * time.Millisecond); len(samples) != want {
		t.Errorf("Expected %d samples, got %d", want, len(samples))
	}

	var peak float64
	for i, s := range samples {
		if s[0] < -1 || s[0] > 1 {
			t.Fatalf("Sample %d out of range: %f", i, s[0])
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak < 0.5 {
		t.Errorf("Expected audible tone, peak %f", peak)
	}

	// Envelope starts and ends at silence
	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if last := samples[len(samples)-1][0]; math.Abs(last) > 0.01 {
		t.Errorf("Expected near-silent last sample, got %f", last)
	}
}

func TestBeepVolume(t *testing.T) {
	rate := beep.SampleRate(22050)

	tests := []struct {
		name    string
		volume  float64
		maxPeak float64
	}{
		{"muted", 0, 0},
		{"half", 0.5, 0.5 + 1e-9},
		{"clamped above one", 3, 1},
		{"clamped below zero", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureSink{}
			p := newWithSink(rate, tt.volume, sink)
			if err := p.Beep(440, 20*time.Millisecond); err != nil {
				t.Fatalf("Beep() error = %v", err)
			}
			for _, s := range drain(sink.played[0]) {
				if math.Abs(s[0]) > tt.maxPeak {
					t.Fatalf("Sample %f exceeds peak %f", s[0], tt.maxPeak)
				}
			}
		})
	}
}

func TestBeepInvalidTone(t *testing.T) {
	p := newWithSink(44100, 1, &captureSink{})

	if err := p.Beep(0, time.Second); !errors.Is(err, ErrInvalidTone) {
		t.Errorf("Expected ErrInvalidTone for zero freq, got %v", err)
	}
	if err := p.Beep(440, 0); !errors.Is(err, ErrInvalidTone) {
		t.Errorf("Expected ErrInvalidTone for zero duration, got %v", err)
	}
	// Above Nyquist
	if err := p.Beep(30000, time.Millisecond); err == nil {
		t.Error("Expected error for frequency above Nyquist")
	}
}

func TestSilentPlayer(t *testing.T) {
	p := Silent()
	if p.Enabled() {
		t.Error("Silent player reports enabled")
	}
	if err := p.Beep(440, time.Millisecond); err != nil {
		t.Errorf("Silent Beep() = %v", err)
	}
	p.Close()
	p.Close()
}

func TestNewDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Enabled() {
		t.Error("Disabled config produced an enabled player")
	}
}

func TestNewInvalidSampleRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 0

	p, err := New(cfg)
	if err == nil {
		t.Error("Expected error for zero sample rate")
	}
	if p == nil || p.Enabled() {
		t.Error("Expected silent fallback player")
	}
}

func TestCloseDropsBeeps(t *testing.T) {
	sink := &captureSink{}
	p := newWithSink(44100, 1, sink)
	p.Close()

	if err := p.Beep(440, time.Millisecond); err != nil {
		t.Errorf("Beep() after Close = %v", err)
	}
	if len(sink.played) != 0 {
		t.Errorf("Expected no playback after Close, got %d", len(sink.played))
	}
}

func TestEnvelopeShortTone(t *testing.T) {
	rate := beep.SampleRate(44100)
	// Shorter than attack + release
	s, err := Tone(rate, 440, 4*time.Millisecond, 1)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}
	if got, want := len(drain(s)), rate.N(4*time.Millisecond); got != want {
		t.Errorf("Expected %d samples, got %d", want, got)
	}
}
