package tcellterm

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/rich-engine/terminal"
)

// specialKeys maps tcell keys without a rune to terminal keys
// Ctrl+letter keys are handled by range in convertKey since tcell aliases
// several of them (Ctrl+H is Backspace, Ctrl+I is Tab, Ctrl+M is Enter)
var specialKeys = map[tcell.Key]terminal.Key{
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyLF:         terminal.KeyEnter,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyDelete:     terminal.KeyDelete,

	tcell.KeyUp:     terminal.KeyUp,
	tcell.KeyDown:   terminal.KeyDown,
	tcell.KeyLeft:   terminal.KeyLeft,
	tcell.KeyRight:  terminal.KeyRight,
	tcell.KeyHome:   terminal.KeyHome,
	tcell.KeyEnd:    terminal.KeyEnd,
	tcell.KeyPgUp:   terminal.KeyPageUp,
	tcell.KeyPgDn:   terminal.KeyPageDown,
	tcell.KeyInsert: terminal.KeyInsert,

	tcell.KeyF1:  terminal.KeyF1,
	tcell.KeyF2:  terminal.KeyF2,
	tcell.KeyF3:  terminal.KeyF3,
	tcell.KeyF4:  terminal.KeyF4,
	tcell.KeyF5:  terminal.KeyF5,
	tcell.KeyF6:  terminal.KeyF6,
	tcell.KeyF7:  terminal.KeyF7,
	tcell.KeyF8:  terminal.KeyF8,
	tcell.KeyF9:  terminal.KeyF9,
	tcell.KeyF10: terminal.KeyF10,
	tcell.KeyF11: terminal.KeyF11,
	tcell.KeyF12: terminal.KeyF12,

	tcell.KeyCtrlSpace:      terminal.KeyCtrlSpace,
	tcell.KeyCtrlBackslash:  terminal.KeyCtrlBackslash,
	tcell.KeyCtrlRightSq:    terminal.KeyCtrlBracketRight,
	tcell.KeyCtrlCarat:      terminal.KeyCtrlCaret,
	tcell.KeyCtrlUnderscore: terminal.KeyCtrlUnderscore,
}

// convertKey translates a tcell key event into the decoder's vocabulary
func convertKey(k tcell.Key, r rune, mod tcell.ModMask) terminal.KeyEvent {
	mods := convertMod(mod)

	if k == tcell.KeyRune {
		return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r, Modifiers: mods}
	}

	if key, ok := specialKeys[k]; ok {
		return terminal.KeyEvent{Key: key, Modifiers: mods}
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		// tcell reports Ctrl implicitly for control keys
		return terminal.KeyEvent{
			Key:       terminal.KeyCtrlA + terminal.Key(k-tcell.KeyCtrlA),
			Modifiers: mods &^ terminal.ModCtrl,
		}
	}

	return terminal.KeyEvent{}
}

func convertMod(mod tcell.ModMask) terminal.Modifier {
	var m terminal.Modifier
	if mod&tcell.ModShift != 0 {
		m |= terminal.ModShift
	}
	if mod&tcell.ModAlt != 0 {
		m |= terminal.ModAlt
	}
	if mod&tcell.ModCtrl != 0 {
		m |= terminal.ModCtrl
	}
	return m
}
