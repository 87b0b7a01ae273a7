package terminal

import (
	"os"
	"strings"
)

// Profile indicates terminal color capability, detected once at startup.
type Profile uint8

const (
	ProfileNoColor   Profile = iota // no color support, glyph ramp rendering
	Profile256                      // xterm-256 palette
	ProfileTrueColor                // 24-bit RGB
)

// String returns a human-readable profile name
func (p Profile) String() string {
	switch p {
	case ProfileTrueColor:
		return "24bit"
	case Profile256:
		return "256"
	case ProfileNoColor:
		return "mono"
	default:
		return "unknown"
	}
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// ColorKind tags the wire representation of a cell color
type ColorKind uint8

const (
	ColorDefault ColorKind = iota // terminal default fg/bg
	ColorRGB                      // 24-bit direct color
	ColorIndexed                  // 256-palette index
)

// Color is the resolved cell color: terminal default, a direct 24-bit
// value, or a 256-palette index. Produced by the quantizer, consumed by
// the output writer.
type Color struct {
	Kind  ColorKind
	RGB   RGB
	Index uint8
}

// NewRGB returns a direct-color Color
func NewRGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, RGB: RGB{R: r, G: g, B: b}}
}

// NewIndexed returns a 256-palette Color
func NewIndexed(idx uint8) Color {
	return Color{Kind: ColorIndexed, Index: idx}
}

// DefaultColor returns the terminal default color
func DefaultColor() Color {
	return Color{Kind: ColorDefault}
}

// Cell represents a single terminal cell
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

// DetectProfile determines terminal color capability from environment.
// Queried once at startup; never re-evaluated per frame.
func DetectProfile() Profile {
	// NO_COLOR convention and dumb terminals disable color entirely
	if os.Getenv("NO_COLOR") != "" {
		return ProfileNoColor
	}
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return ProfileNoColor
	}

	// COLORTERM is set by modern terminals and has highest priority
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ProfileTrueColor
	}

	// Terminal-specific env vars
	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("ALACRITTY_LOG") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ProfileTrueColor
	}

	termLower := strings.ToLower(term)
	if strings.Contains(termLower, "truecolor") ||
		strings.Contains(termLower, "24bit") ||
		strings.Contains(termLower, "direct") {
		return ProfileTrueColor
	}

	return Profile256
}
