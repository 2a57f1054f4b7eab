package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/rich-engine/canvas"
	"github.com/lixenwraith/rich-engine/engine"
	"github.com/lixenwraith/rich-engine/terminal"
)

type toneRecorder struct {
	freqs []float64
}

func (r *toneRecorder) Beep(freq float64, d time.Duration) error {
	r.freqs = append(r.freqs, freq)
	return nil
}

func newTestContext(t *testing.T, w, h int, snd engine.Sound) *engine.GameContext {
	t.Helper()
	c, err := canvas.New(w, h)
	if err != nil {
		t.Fatalf("canvas.New() error = %v", err)
	}
	return &engine.GameContext{
		Canvas: c,
		Width:  w,
		Height: h,
		Sound:  snd,
		Logger: log.New(io.Discard, "", 0),
	}
}

func TestTypingGameHit(t *testing.T) {
	snd := &toneRecorder{}
	gc := newTestContext(t, 40, 12, snd)
	g := newTypingGame(1)
	if err := g.OnCreate(gc); err != nil {
		t.Fatalf("OnCreate() error = %v", err)
	}
	if len(g.characters) != 1 {
		t.Fatalf("Expected one spawned character, got %d", len(g.characters))
	}

	target := g.characters[0]
	if err := g.OnUpdate(gc, 0, terminal.RuneKey(target.r)); err != nil {
		t.Fatalf("OnUpdate() error = %v", err)
	}

	if g.cursorX != target.x || g.cursorY != target.y {
		t.Errorf("Expected cursor at (%d,%d), got (%d,%d)", target.x, target.y, g.cursorX, g.cursorY)
	}
	if len(g.characters) != 0 || g.hits != 1 {
		t.Errorf("Expected character consumed, hits=%d left=%d", g.hits, len(g.characters))
	}
	if len(snd.freqs) != 1 || snd.freqs[0] != hitTone {
		t.Errorf("Expected hit tone, got %v", snd.freqs)
	}
	if len(g.trails) != trailLength {
		t.Errorf("Expected %d trail cells, got %d", trailLength, len(g.trails))
	}
}

func TestTypingGameMiss(t *testing.T) {
	snd := &toneRecorder{}
	gc := newTestContext(t, 40, 12, snd)
	g := newTypingGame(1)
	g.OnCreate(gc)
	g.characters = []character{{r: 'a', x: 1, y: 1}}

	g.OnUpdate(gc, 0, terminal.RuneKey('z'))

	if g.misses != 1 || g.errorLeft <= 0 {
		t.Errorf("Expected miss flagged, misses=%d errorLeft=%v", g.misses, g.errorLeft)
	}
	if r, _ := gc.Canvas.Get(g.cursorX, g.cursorY); r != 'X' {
		t.Errorf("Expected error cursor, got %q", r)
	}
	if len(snd.freqs) != 1 || snd.freqs[0] != missTone {
		t.Errorf("Expected miss tone, got %v", snd.freqs)
	}

	// Error cursor clears after the blink period
	g.OnUpdate(gc, errorBlink, terminal.KeyEvent{})
	if g.errorLeft > 0 {
		t.Errorf("Expected error cleared, %v left", g.errorLeft)
	}
}

func TestTypingGameQuitKeys(t *testing.T) {
	for _, k := range []terminal.Key{terminal.KeyEscape, terminal.KeyCtrlC} {
		gc := newTestContext(t, 20, 8, nil)
		g := newTypingGame(1)
		g.OnCreate(gc)
		if err := g.OnUpdate(gc, 0, terminal.KeyEvent{Key: k}); !errors.Is(err, engine.ErrQuit) {
			t.Errorf("Key %v: expected ErrQuit, got %v", k, err)
		}
	}
}

func TestTypingGameSpawnsAndTrailsDecay(t *testing.T) {
	gc := newTestContext(t, 40, 12, nil)
	g := newTypingGame(7)
	g.OnCreate(gc)
	g.addTrail(0, 0, 8, 0)

	g.OnUpdate(gc, spawnEvery, terminal.KeyEvent{})

	if len(g.characters) != 2 {
		t.Errorf("Expected a second character after %v, got %d", spawnEvery, len(g.characters))
	}
	if len(g.trails) != 0 {
		t.Errorf("Expected trails gone after %v, got %d", spawnEvery, len(g.trails))
	}
}

func TestTypingGameStatusLine(t *testing.T) {
	gc := newTestContext(t, 40, 6, nil)
	g := newTypingGame(3)
	g.OnCreate(gc)
	g.OnUpdate(gc, 0, terminal.KeyEvent{})

	status := gc.Canvas.Snapshot().Lines()[5]
	if !strings.HasPrefix(status, "hits 0  misses 0") {
		t.Errorf("Unexpected status line %q", status)
	}
	for _, ch := range g.characters {
		if ch.y >= 5 {
			t.Errorf("Character spawned on status row: %+v", ch)
		}
	}
}

// brokenDisplay fails at terminal setup
type brokenDisplay struct {
	err      error
	restores int
}

func (d *brokenDisplay) Bind(w, h int) error                       { return nil }
func (d *brokenDisplay) Clear() error                              { return d.err }
func (d *brokenDisplay) HideCursor() error                         { return nil }
func (d *brokenDisplay) ShowCursor() error                         { d.restores++; return nil }
func (d *brokenDisplay) DisableEcho() error                        { return nil }
func (d *brokenDisplay) EnableEcho() error                         { return nil }
func (d *brokenDisplay) PollKey() (terminal.KeyEvent, bool, error) { return terminal.KeyEvent{}, false, nil }
func (d *brokenDisplay) Render(canvas.Frame) error                 { return nil }

func TestRunReturnsPlayError(t *testing.T) {
	if err := flag.Set("mute", "true"); err != nil {
		t.Fatalf("flag.Set(mute) error = %v", err)
	}

	errNoTTY := errors.New("no tty")
	d := &brokenDisplay{err: errNoTTY}

	err := run(engine.WithDisplay(d))
	if !errors.Is(err, errNoTTY) {
		t.Fatalf("Expected run to return the display error, got %v", err)
	}
	if d.restores != 1 {
		t.Errorf("Expected terminal restored once, got %d", d.restores)
	}
}
