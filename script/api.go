package script

import (
	"time"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/lixenwraith/rich-engine/canvas"
)

// quitMessage is raised by quit() to unwind the running hook
const quitMessage = "rich-engine: quit"

// install registers the game API into L
//
//	canvas.set(x, y, ch) -> bool
//	canvas.get(x, y) -> ch | nil
//	canvas.write(text, x, y) -> cells written
//	canvas.fill(ch)
//	canvas.clear()
//	width(), height(), frame()
//	beep(freq, ms)
//	log(msg)
//	quit()
func (g *Game) install(L *lua.LState) {
	L.SetGlobal("canvas", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"set":   g.luaSet,
		"get":   g.luaGet,
		"write": g.luaWrite,
		"fill":  g.luaFill,
		"clear": g.luaClear,
	}))

	L.SetGlobal("width", L.NewFunction(g.luaWidth))
	L.SetGlobal("height", L.NewFunction(g.luaHeight))
	L.SetGlobal("frame", L.NewFunction(g.luaFrame))
	L.SetGlobal("beep", L.NewFunction(g.luaBeep))
	L.SetGlobal("log", L.NewFunction(g.luaLog))
	L.SetGlobal("quit", L.NewFunction(g.luaQuit))
}

// canvasOrRaise returns the session canvas; hooks only run inside a session
func (g *Game) canvasOrRaise(L *lua.LState) *canvas.Canvas {
	if g.gc == nil {
		L.RaiseError("canvas is only available inside hooks")
	}
	return g.gc.Canvas
}

// checkRune reads a one-character string argument
func checkRune(L *lua.LState, n int) rune {
	s := L.CheckString(n)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		L.ArgError(n, "expected a single character")
	}
	return r
}

func (g *Game) luaSet(L *lua.LState) int {
	c := g.canvasOrRaise(L)
	x, y := L.CheckInt(1), L.CheckInt(2)
	r := checkRune(L, 3)
	L.Push(lua.LBool(c.Set(x, y, r)))
	return 1
}

func (g *Game) luaGet(L *lua.LState) int {
	c := g.canvasOrRaise(L)
	r, ok := c.Get(L.CheckInt(1), L.CheckInt(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(string(r)))
	return 1
}

func (g *Game) luaWrite(L *lua.LState) int {
	c := g.canvasOrRaise(L)
	text := L.CheckString(1)
	x, y := L.CheckInt(2), L.CheckInt(3)
	L.Push(lua.LNumber(c.WriteString(text, x, y)))
	return 1
}

func (g *Game) luaFill(L *lua.LState) int {
	g.canvasOrRaise(L).Fill(checkRune(L, 1))
	return 0
}

func (g *Game) luaClear(L *lua.LState) int {
	g.canvasOrRaise(L).Clear()
	return 0
}

func (g *Game) luaWidth(L *lua.LState) int {
	L.Push(lua.LNumber(g.canvasOrRaise(L).Width()))
	return 1
}

func (g *Game) luaHeight(L *lua.LState) int {
	L.Push(lua.LNumber(g.canvasOrRaise(L).Height()))
	return 1
}

func (g *Game) luaFrame(L *lua.LState) int {
	if g.gc == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(g.gc.FrameNumber))
	return 1
}

func (g *Game) luaBeep(L *lua.LState) int {
	freq := float64(L.CheckNumber(1))
	ms := L.OptInt(2, 50)
	if g.gc != nil {
		g.gc.Beep(freq, time.Duration(ms)*time.Millisecond)
	}
	return 0
}

func (g *Game) luaLog(L *lua.LState) int {
	g.logger.Printf("script %s: %s", g.name, L.CheckString(1))
	return 0
}

// luaQuit flags the exit and unwinds the hook, like a raised exception
func (g *Game) luaQuit(L *lua.LState) int {
	g.quit = true
	L.RaiseError(quitMessage)
	return 0
}
