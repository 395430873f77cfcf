package dialog

import (
	"charm.land/lipgloss/v2"

	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// Button is a focusable labeled control rendered inside dialog surfaces.
type Button struct {
	label    string
	focused  bool
	disabled bool
}

// NewButton creates a button with the given label.
func NewButton(label string) *Button {
	return &Button{label: label}
}

// Focus gives the button keyboard focus.
func (b *Button) Focus() { b.focused = true }

// Blur removes keyboard focus from the button.
func (b *Button) Blur() { b.focused = false }

// Focused reports whether the button has keyboard focus.
func (b *Button) Focused() bool { return b.focused }

// SetLabel replaces the button label (used for busy/armed variants).
func (b *Button) SetLabel(label string) { b.label = label }

// Label returns the current label.
func (b *Button) Label() string { return b.label }

// SetDisabled toggles the disabled state.
func (b *Button) SetDisabled(disabled bool) { b.disabled = disabled }

// IsDisabled reports the disabled state. Shaped as a method value for use
// as a Target.Disabled predicate.
func (b *Button) IsDisabled() bool { return b.disabled }

// Render renders the button with state-dependent styling.
func (b *Button) Render() string {
	t := theme.Current()
	base := lipgloss.NewStyle().
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	switch {
	case b.disabled:
		return base.
			Foreground(lipgloss.Color(t.FgMuted)).
			Background(lipgloss.Color(t.BgMantle)).
			Render(b.label)
	case b.focused:
		return base.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.FgBright)).
			Bold(true).
			Render(b.label)
	default:
		return base.
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface0)).
			Render(b.label)
	}
}

// RenderRow renders a row of buttons centered within the given width.
func RenderRow(width int, buttons ...*Button) string {
	if len(buttons) == 0 {
		return ""
	}
	rendered := ""
	for _, b := range buttons {
		rendered += b.Render()
	}
	return lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, rendered)
}
