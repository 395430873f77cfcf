package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// inputControl adapts a bubbles textinput to the dialog focus contract.
// The textinput Focus returns a cursor-blink command; the adapter drops it
// since blink scheduling is handled by the host's view cursor instead.
type inputControl struct {
	m *textinput.Model
}

func (c *inputControl) Focus()        { c.m.Focus() }
func (c *inputControl) Blur()         { c.m.Blur() }
func (c *inputControl) Focused() bool { return c.m.Focused() }

// newInput creates a themed textinput for dialog fields.
func newInput(placeholder string, width int) textinput.Model {
	t := theme.Current()

	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	in.SetWidth(width)
	return in
}

// labeledField renders a caption above an input's view.
func labeledField(label, view string) string {
	t := theme.Current()
	caption := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, caption, view)
}
