// Package testfixtures holds shared setup for TUI rendering tests.
package testfixtures

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

func init() {
	// Ascii profile disables color output for consistent assertions across
	// CI and platforms.
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// RenderToString draws onto a fresh screen buffer of the canonical test
// size and returns the rendered frame.
func RenderToString(draw func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	draw(canvas, canvas.Bounds())
	return canvas.Render()
}

// StripANSI removes escape sequences so tests can assert on plain text
// regardless of styling.
func StripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
