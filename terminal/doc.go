// Package terminal provides direct ANSI terminal control for the game loop.
//
// Features:
//   - Raw mode with echo disabled via x/term, restored by EnableEcho
//   - Non-blocking keystroke polling with escape sequence decoding
//   - Character-grid frame output positioned row by row
//   - Emergency restoration for panic handlers
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
