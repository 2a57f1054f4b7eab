package terminal

import "unicode/utf8"

// decoder turns raw stdin bytes into key events
// Incomplete escape or UTF-8 sequences stay buffered until the next feed
type decoder struct {
	buf    []byte
	events []KeyEvent
}

func newDecoder() *decoder {
	return &decoder{
		buf:    make([]byte, 0, 64),
		events: make([]KeyEvent, 0, 16),
	}
}

// feed appends raw input and parses as much as possible
func (d *decoder) feed(data []byte) {
	d.buf = append(d.buf, data...)
	consumed := d.parse(d.buf)

	// Compact buffer
	if consumed >= len(d.buf) {
		d.buf = d.buf[:0]
	} else if consumed > 0 {
		n := copy(d.buf, d.buf[consumed:])
		d.buf = d.buf[:n]
	}
}

// idle is called when a poll found no input
// A lone ESC with nothing following is a standalone Escape press.
// An escape prefix that never completed (ESC [ is Alt+[) is flushed as
// ESC plus the next byte, the rest is parsed as ordinary input.
func (d *decoder) idle() {
	for len(d.buf) > 0 && d.buf[0] == 0x1b {
		if len(d.buf) == 1 {
			d.emit(KeyEvent{Key: KeyEscape})
			d.buf = d.buf[:0]
			return
		}

		d.emit(KeyEvent{Key: KeyRune, Rune: rune(d.buf[1]), Modifiers: ModAlt})
		rest := d.buf[2:]
		consumed := d.parse(rest)
		n := copy(d.buf, rest[consumed:])
		d.buf = d.buf[:n]
	}
}

// next pops the oldest decoded event
func (d *decoder) next() (KeyEvent, bool) {
	if len(d.events) == 0 {
		return KeyEvent{}, false
	}
	ev := d.events[0]
	n := copy(d.events, d.events[1:])
	d.events = d.events[:n]
	return ev, true
}

func (d *decoder) emit(ev KeyEvent) {
	d.events = append(d.events, ev)
}

// parse returns bytes consumed, stopping on an incomplete sequence
func (d *decoder) parse(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		switch {
		case b >= 0x20 && b < 0x7f:
			// Fast path: printable ASCII
			d.emit(RuneKey(rune(b)))
			i++

		case b == 0x1b:
			if i+1 >= n {
				return i // Wait for more data or idle()
			}
			consumed, ev := parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			// Unknown but complete sequences are swallowed
			if ev.Key != KeyNone {
				d.emit(ev)
			}
			i += consumed

		case b < 0x20:
			d.emit(parseControl(b))
			i++

		case b == 0x7f:
			d.emit(KeyEvent{Key: KeyBackspace})
			i++

		default:
			// UTF-8 multibyte
			if !utf8.FullRune(data[i:]) {
				return i
			}
			r, size := utf8.DecodeRune(data[i:])
			if r != utf8.RuneError {
				d.emit(RuneKey(r))
			}
			i += size
		}
	}
	return i
}

// parseEscape parses a sequence starting with ESC, returns 0 on incomplete
func parseEscape(data []byte) (int, KeyEvent) {
	if len(data) < 2 {
		return 0, KeyEvent{}
	}

	switch c := data[1]; {
	case c == 0x1b:
		// ESC ESC -> Alt+Escape
		return 2, KeyEvent{Key: KeyEscape, Modifiers: ModAlt}
	case c == '[':
		return parseCSI(data)
	case c == 'O':
		return parseSS3(data)
	case c < 0x20:
		ev := parseControl(c)
		ev.Modifiers |= ModAlt
		return 2, ev
	case c < 0x7f:
		return 2, KeyEvent{Key: KeyRune, Rune: rune(c), Modifiers: ModAlt}
	}

	// ESC followed by a non-ASCII byte: report Escape, let the rest parse normally
	return 1, KeyEvent{Key: KeyEscape}
}

// parseCSI parses "ESC [ params final"
func parseCSI(data []byte) (int, KeyEvent) {
	if len(data) < 3 {
		return 0, KeyEvent{}
	}

	// Linux console F1-F5: ESC [ [ A..E
	if data[2] == '[' {
		if len(data) < 4 {
			return 0, KeyEvent{}
		}
		if data[3] >= 'A' && data[3] <= 'E' {
			return 4, KeyEvent{Key: KeyF1 + Key(data[3]-'A')}
		}
		return 4, KeyEvent{}
	}

	const maxScan = 16
	end := 2
	for {
		if end >= len(data) {
			if end >= maxScan {
				// Runaway sequence, drop the introducer
				return 2, KeyEvent{}
			}
			return 0, KeyEvent{}
		}
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			break
		}
		if b < 0x20 || b > 0x7e || end >= maxScan {
			return end, KeyEvent{}
		}
		end++
	}

	final := data[end]
	p1, p2 := csiParams(data[2:end])
	consumed := end + 1

	switch final {
	case '~':
		if key, ok := csiTildeKeys[p1]; ok {
			return consumed, KeyEvent{Key: key, Modifiers: xtermModifier(p2)}
		}
	case 'Z':
		return consumed, KeyEvent{Key: KeyBacktab, Modifiers: ModShift}
	default:
		if key, ok := csiLetterKeys[final]; ok {
			return consumed, KeyEvent{Key: key, Modifiers: xtermModifier(p2)}
		}
	}

	// Unknown but valid CSI syntax
	return consumed, KeyEvent{}
}

// csiParams extracts the first two numeric parameters of "a;b"
func csiParams(body []byte) (int, int) {
	var params [2]int
	idx := 0
	for _, b := range body {
		switch {
		case b == ';':
			idx++
			if idx >= len(params) {
				return params[0], params[1]
			}
		case b >= '0' && b <= '9':
			if params[idx] < 1000 {
				params[idx] = params[idx]*10 + int(b-'0')
			}
		}
	}
	return params[0], params[1]
}

// parseSS3 parses "ESC O X", consuming unknown sequences to prevent garbage
func parseSS3(data []byte) (int, KeyEvent) {
	if len(data) < 3 {
		return 0, KeyEvent{}
	}
	if key, ok := ss3Keys[data[2]]; ok {
		return 3, KeyEvent{Key: key}
	}
	return 3, KeyEvent{}
}

// parseControl maps control characters to keys
func parseControl(b byte) KeyEvent {
	switch b {
	case 0x00: // Ctrl+Space or Ctrl+@
		return KeyEvent{Key: KeyCtrlSpace}
	case 0x08: // Ctrl+H or Backspace
		return KeyEvent{Key: KeyBackspace}
	case 0x09:
		return KeyEvent{Key: KeyTab}
	case 0x0a, 0x0d: // LF, CR
		return KeyEvent{Key: KeyEnter}
	case 0x1b:
		return KeyEvent{Key: KeyEscape}
	case 0x1c:
		return KeyEvent{Key: KeyCtrlBackslash}
	case 0x1d:
		return KeyEvent{Key: KeyCtrlBracketRight}
	case 0x1e:
		return KeyEvent{Key: KeyCtrlCaret}
	case 0x1f:
		return KeyEvent{Key: KeyCtrlUnderscore}
	}
	// Ctrl+A (0x01) .. Ctrl+Z (0x1a) follow the enum order
	if b >= 0x01 && b <= 0x1a {
		return KeyEvent{Key: KeyCtrlA + Key(b-0x01)}
	}
	return KeyEvent{}
}
