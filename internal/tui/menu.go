package tui

import (
	"fmt"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// menuItem is one action on the home menu. It implements dialog.Focusable so
// a dialog opened from it can hand focus back on close, and reports
// attachment so restoration is skipped if the item was removed meanwhile.
type menuItem struct {
	id       string
	title    string
	desc     string
	focused  bool
	attached bool
}

func (m *menuItem) Focus()         { m.focused = true }
func (m *menuItem) Blur()          { m.focused = false }
func (m *menuItem) Focused() bool  { return m.focused }
func (m *menuItem) Attached() bool { return m.attached }

// Menu is the home screen's action list.
type Menu struct {
	items []*menuItem
}

// NewMenu creates the menu with the demo actions.
func NewMenu() *Menu {
	items := []*menuItem{
		{id: "new-note", title: "New note", desc: "Open the note form dialog"},
		{id: "delete-note", title: "Delete last note", desc: "Double-confirm before deleting"},
		{id: "setup", title: "Project setup", desc: "Run the three-step setup wizard"},
	}
	for _, it := range items {
		it.attached = true
	}
	items[0].focused = true
	return &Menu{items: items}
}

// Selected returns the focused item.
func (m *Menu) Selected() *menuItem {
	for _, it := range m.items {
		if it.focused {
			return it
		}
	}
	return m.items[0]
}

// Move shifts the focused item by delta, clamped to the list.
func (m *Menu) Move(delta int) {
	idx := 0
	for i, it := range m.items {
		if it.focused {
			idx = i
		}
		it.focused = false
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.items) {
		idx = len(m.items) - 1
	}
	m.items[idx].focused = true
}

// SetItemAttached marks an item as present or removed, which controls
// whether closing dialogs restore focus to it.
func (m *Menu) SetItemAttached(id string, attached bool) {
	for _, it := range m.items {
		if it.id == id {
			it.attached = attached
		}
	}
}

// View renders the menu list.
func (m *Menu) View(width int) string {
	t := theme.Current()

	itemStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Padding(0, 1)
	focusedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Primary)).
		Bold(true).
		Padding(0, 1)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Padding(0, 3)

	rows := make([]string, 0, len(m.items)*2)
	for i, it := range m.items {
		label := fmt.Sprintf("%d. %s", i+1, it.title)
		if it.focused {
			rows = append(rows, focusedStyle.Render(label))
		} else {
			rows = append(rows, itemStyle.Render(label))
		}
		rows = append(rows, descStyle.Width(width-3).Render(it.desc))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Draw renders the menu into area.
func (m *Menu) Draw(scr uv.Screen, area uv.Rectangle) {
	uv.NewStyledString(m.View(area.Dx())).Draw(scr, area)
}
