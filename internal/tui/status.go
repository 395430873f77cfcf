package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/syntax-syndicate/modality/internal/events"
	"github.com/syntax-syndicate/modality/internal/tui/dialog"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// StatusBar displays app info (left) and the last lifecycle event (right).
type StatusBar struct {
	lock       *dialog.ScrollLock
	lastEvent  string
	eventCount int
}

// NewStatusBar creates a status bar watching the given scroll lock.
func NewStatusBar(lock *dialog.ScrollLock) *StatusBar {
	return &StatusBar{lock: lock}
}

// RecordEvent notes a lifecycle event for display.
func (s *StatusBar) RecordEvent(evt events.Event) {
	s.eventCount++
	s.lastEvent = fmt.Sprintf("%s %s", evt.Kind, evt.Source)
}

// Draw renders the status bar to the screen.
// Format: modality | theme | modal?     last event (#count)
func (s *StatusBar) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}

	t := theme.Current()
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))
	lockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning))

	sep := sepStyle.Render(" | ")
	left := titleStyle.Render("modality") + sep + infoStyle.Render(t.Name)
	if s.lock != nil && s.lock.Locked() {
		left += sep + lockStyle.Render("modal")
	}

	var right string
	if s.lastEvent != "" {
		right = infoStyle.Render(fmt.Sprintf("%s (#%d)", s.lastEvent, s.eventCount))
	}

	totalWidth := area.Dx() - 2
	padding := totalWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	content := left + strings.Repeat(" ", padding) + right

	barStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(t.BgSurface0)).
		Width(area.Dx()).
		Padding(0, 1)
	uv.NewStyledString(barStyle.Render(content)).Draw(scr, area)
	return nil
}
