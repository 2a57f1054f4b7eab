// Package script runs games written in Lua on the engine.
//
// A script defines any of the global hooks
//
//	function on_create() end
//	function on_update(elapsed, key) end   -- elapsed in seconds, key name or nil
//	function on_destroy() end
//	function on_reload() end                -- after a hot reload replaced the script
//
// and draws through the canvas table. Calling quit() ends the session after
// the current frame is rendered.
package script

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/lixenwraith/rich-engine/engine"
	"github.com/lixenwraith/rich-engine/terminal"
)

var (
	// ErrTimeout is returned when a hook runs longer than the call timeout
	ErrTimeout = errors.New("lua hook timed out")

	// ErrNotFunction is returned when a hook name is bound to a non-function value
	ErrNotFunction = errors.New("hook is not a function")
)

// DefaultCallTimeout bounds a single hook invocation
const DefaultCallTimeout = time.Second

// Option configures a Game
type Option func(*Game)

// WithHotReload reloads the script file when it changes on disk
func WithHotReload() Option {
	return func(g *Game) {
		g.hotReload = true
	}
}

// WithCallTimeout bounds each hook call; runaway loops fail the session
func WithCallTimeout(d time.Duration) Option {
	return func(g *Game) {
		g.timeout = d
	}
}

// WithLogger sets the logger for script log() calls and reload notices
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// Game adapts a Lua script to engine.Game.
// Like the loop that drives it, a Game is used from a single goroutine.
type Game struct {
	name      string
	path      string
	hotReload bool
	timeout   time.Duration
	logger    *log.Logger

	state *lua.LState
	gc    *engine.GameContext
	quit  bool
	watch *watcher

	reloads int
}

var _ engine.Game = (*Game)(nil)

func newGame(name string, opts []Option) *Game {
	g := &Game{
		name:    name,
		timeout: DefaultCallTimeout,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromString compiles and runs the chunk. name appears in Lua error messages.
// Hot reload does not apply to in-memory scripts.
func NewFromString(name, code string, opts ...Option) (*Game, error) {
	g := newGame(name, opts)
	g.hotReload = false
	if err := g.load(code); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFromFile loads a script file and, with WithHotReload, starts watching it
func NewFromFile(path string, opts ...Option) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	g := newGame(filepath.Base(path), opts)
	g.path = path
	if err := g.load(string(data)); err != nil {
		return nil, err
	}

	if g.hotReload {
		w, err := newWatcher(path, g.logger)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("watch script: %w", err)
		}
		g.watch = w
	}
	return g, nil
}

// load compiles code into a fresh state; the running state is replaced only on success
func (g *Game) load(code string) error {
	L := newState()
	g.install(L)

	fn, err := L.Load(strings.NewReader(code), g.name)
	if err != nil {
		L.Close()
		return fmt.Errorf("compile %s: %w", g.name, err)
	}
	if err := g.protectedCall(L, fn); err != nil {
		L.Close()
		return fmt.Errorf("run %s: %w", g.name, err)
	}

	if g.state != nil {
		g.state.Close()
	}
	g.state = L
	return nil
}

// OnCreate calls on_create
func (g *Game) OnCreate(gc *engine.GameContext) error {
	g.gc = gc
	return g.call("on_create")
}

// OnUpdate applies a pending reload, then calls on_update(elapsed, key)
func (g *Game) OnUpdate(gc *engine.GameContext, elapsed time.Duration, key terminal.KeyEvent) error {
	g.gc = gc
	g.checkReload()

	var k lua.LValue = lua.LNil
	if !key.IsNone() {
		k = lua.LString(key.Name())
	}
	return g.call("on_update", lua.LNumber(elapsed.Seconds()), k)
}

// OnDestroy calls on_destroy
func (g *Game) OnDestroy(gc *engine.GameContext) error {
	g.gc = gc
	return g.call("on_destroy")
}

// Reloads returns how many hot reloads succeeded
func (g *Game) Reloads() int {
	return g.reloads
}

// Close stops the watcher and releases the Lua state; safe to call twice
func (g *Game) Close() error {
	var err error
	if g.watch != nil {
		err = g.watch.close()
		g.watch = nil
	}
	if g.state != nil {
		g.state.Close()
		g.state = nil
	}
	return err
}

// call invokes a global hook if the script defines it
func (g *Game) call(hook string, args ...lua.LValue) error {
	if g.state == nil {
		return fmt.Errorf("%s: script closed", g.name)
	}

	fn := g.state.GetGlobal(hook)
	if fn == lua.LNil {
		return nil
	}
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("%w: %s is %s", ErrNotFunction, hook, fn.Type())
	}
	return g.protectedCall(g.state, fn, args...)
}

// protectedCall runs fn under the call timeout and maps quit() to engine.ErrQuit
func (g *Game) protectedCall(L *lua.LState, fn lua.LValue, args ...lua.LValue) error {
	if g.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	g.quit = false
	err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)

	// quit() may have been caught by a pcall in the script; the flag still counts
	if g.quit {
		g.quit = false
		return engine.ErrQuit
	}
	if err != nil {
		if ctx := L.Context(); ctx != nil && ctx.Err() != nil {
			return fmt.Errorf("%w after %v", ErrTimeout, g.timeout)
		}
		return err
	}
	return nil
}

// checkReload swaps in the changed script, keeping the old one on failure
func (g *Game) checkReload() {
	if g.watch == nil || !g.watch.changed() {
		return
	}

	data, err := os.ReadFile(g.path)
	if err != nil {
		g.logger.Printf("script %s: reload read failed: %v", g.name, err)
		return
	}
	if err := g.load(string(data)); err != nil {
		g.logger.Printf("script %s: reload failed, keeping previous version: %v", g.name, err)
		return
	}
	g.reloads++
	g.logger.Printf("script %s: reloaded (%d)", g.name, g.reloads)

	if err := g.call("on_reload"); err != nil && !errors.Is(err, engine.ErrQuit) {
		g.logger.Printf("script %s: on_reload: %v", g.name, err)
	}
}
