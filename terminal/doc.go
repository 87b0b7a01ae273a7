// Package terminal provides direct ANSI terminal control for cell rendering.
//
// Features:
//   - True color (24-bit), 256-color palette and monochrome output
//   - Style-coalesced escape sequence emission with cursor tracking
//   - Raw stdin input parsing with escape sequence handling
//   - SIGWINCH resize detection
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI
// sequences. Target environments: Linux, macOS, BSDs with xterm-compatible
// terminals.
package terminal
