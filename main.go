// Command rich-engine is a small typing game built on the engine:
// type the characters that appear to jump the cursor onto them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/lixenwraith/rich-engine/engine"
	"github.com/lixenwraith/rich-engine/logging"
	"github.com/lixenwraith/rich-engine/sound"
	"github.com/lixenwraith/rich-engine/terminal"
)

const (
	trailLength   = 8
	trailLife     = 400 * time.Millisecond
	errorBlink    = 500 * time.Millisecond
	cursorBlink   = 500 * time.Millisecond
	spawnEvery    = 2 * time.Second
	maxCharacters = 20

	hitTone  = 880
	missTone = 110
	toneLen  = 50 * time.Millisecond
)

// Trail shades from fresh to faded
var trailShades = []rune{'█', '▓', '▒', '░'}

var spawnRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-=[]{}|;:,.<>?/")

type character struct {
	r    rune
	x, y int
}

type trail struct {
	x, y int
	ttl  time.Duration
}

type typingGame struct {
	engine.BaseGame
	rng *rand.Rand

	// Playfield excludes the status row
	width, height int

	cursorX, cursorY int
	cursorVisible    bool
	sinceBlink       time.Duration
	errorLeft        time.Duration

	sinceSpawn time.Duration
	characters []character
	trails     []trail

	hits, misses int
}

func newTypingGame(seed int64) *typingGame {
	return &typingGame{rng: rand.New(rand.NewSource(seed))}
}

func (g *typingGame) OnCreate(gc *engine.GameContext) error {
	g.width, g.height = gc.Width, gc.Height-1
	if g.height < 1 {
		g.height = gc.Height
	}
	g.cursorX, g.cursorY = g.width/2, g.height/2
	g.cursorVisible = true
	g.spawn()
	gc.Logger.Printf("typing: playfield %dx%d", g.width, g.height)
	return nil
}

func (g *typingGame) OnUpdate(gc *engine.GameContext, elapsed time.Duration, key terminal.KeyEvent) error {
	switch key.Key {
	case terminal.KeyEscape, terminal.KeyCtrlC:
		return engine.Quit()
	case terminal.KeyRune:
		g.typed(gc, key.Rune)
	}

	g.tick(elapsed)
	g.draw(gc)
	return nil
}

func (g *typingGame) OnDestroy(gc *engine.GameContext) error {
	gc.Logger.Printf("typing: %d hits, %d misses", g.hits, g.misses)
	return nil
}

// typed moves the cursor onto the first matching character or flags a miss
func (g *typingGame) typed(gc *engine.GameContext, r rune) {
	for i, ch := range g.characters {
		if ch.r != r {
			continue
		}
		g.addTrail(g.cursorX, g.cursorY, ch.x, ch.y)
		g.cursorX, g.cursorY = ch.x, ch.y
		g.characters = append(g.characters[:i], g.characters[i+1:]...)
		g.hits++
		g.cursorVisible = true
		g.sinceBlink = 0
		gc.Beep(hitTone, toneLen)
		return
	}

	g.misses++
	g.errorLeft = errorBlink
	gc.Beep(missTone, toneLen)
}

// tick advances every timer by one frame
func (g *typingGame) tick(elapsed time.Duration) {
	g.sinceSpawn += elapsed
	if g.sinceSpawn >= spawnEvery {
		g.sinceSpawn = 0
		g.spawn()
	}

	g.sinceBlink += elapsed
	if g.sinceBlink >= cursorBlink {
		g.cursorVisible = !g.cursorVisible
		g.sinceBlink = 0
	}

	if g.errorLeft > 0 {
		g.errorLeft -= elapsed
	}

	kept := g.trails[:0]
	for _, t := range g.trails {
		t.ttl -= elapsed
		if t.ttl > 0 {
			kept = append(kept, t)
		}
	}
	g.trails = kept
}

// spawn places a character away from the cursor
func (g *typingGame) spawn() {
	if len(g.characters) >= maxCharacters {
		return
	}
	// Small fields cannot keep the distance; give up after a few tries
	x, y := 0, 0
	for try := 0; try < 32; try++ {
		x, y = g.rng.Intn(g.width), g.rng.Intn(g.height)
		if abs(x-g.cursorX) > 5 || abs(y-g.cursorY) > 3 {
			break
		}
	}
	g.characters = append(g.characters, character{
		r: spawnRunes[g.rng.Intn(len(spawnRunes))],
		x: x,
		y: y,
	})
}

func (g *typingGame) addTrail(fromX, fromY, toX, toY int) {
	dx, dy := float64(toX-fromX), float64(toY-fromY)
	for i := 1; i <= trailLength; i++ {
		progress := float64(i) / float64(trailLength)
		g.trails = append(g.trails, trail{
			x:   fromX + int(dx*progress),
			y:   fromY + int(dy*progress),
			ttl: time.Duration(float64(trailLife) * progress),
		})
	}
}

func (g *typingGame) draw(gc *engine.GameContext) {
	c := gc.Canvas
	c.Clear()

	for _, ch := range g.characters {
		c.Set(ch.x, ch.y, ch.r)
	}

	for _, t := range g.trails {
		idx := int(float64(len(trailShades)) * (1 - float64(t.ttl)/float64(trailLife)))
		idx = min(max(idx, 0), len(trailShades)-1)
		c.Set(t.x, t.y, trailShades[idx])
	}

	if g.cursorVisible {
		cursor := '_'
		if g.errorLeft > 0 {
			cursor = 'X'
		}
		c.Set(g.cursorX, g.cursorY, cursor)
	}

	if g.height < gc.Height {
		c.WriteString("hits "+strconv.Itoa(g.hits)+"  misses "+strconv.Itoa(g.misses)+"  esc quits", 0, gc.Height-1)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var (
	widthFlag  = flag.Int("width", 60, "Playfield width")
	heightFlag = flag.Int("height", 20, "Playfield height including status line")
	muteFlag   = flag.Bool("mute", false, "Disable sound")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mRICH-ENGINE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rich-engine: %v\n", err)
		os.Exit(1)
	}
}

// run plays one game; deferred cleanup completes before main exits.
// extra options are applied after the defaults.
func run(extra ...engine.Option) error {
	logFile, err := logging.Setup(*debugFlag, logging.DefaultDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging disabled: %v\n", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	cfg := sound.DefaultConfig()
	cfg.Enabled = !*muteFlag
	player, err := sound.New(cfg)
	if err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []engine.Option{
		engine.WithSize(*widthFlag, *heightFlag),
		engine.WithFrameInterval(16 * time.Millisecond), // ~60 FPS
		engine.WithSound(player),
	}
	return engine.Play(ctx, newTypingGame(time.Now().UnixNano()), append(opts, extra...)...)
}
