package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// ToastLevel selects the toast's severity styling.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// ToastDismissMsg is sent when the toast should be dismissed.
type ToastDismissMsg struct{}

// ShowToastMsg asks the host to show a toast notification.
type ShowToastMsg struct {
	Text  string
	Level ToastLevel
}

// ShowToast returns a command that surfaces a toast. Dialog callers use it
// to report validator and completion failures without touching the toast
// component directly.
func ShowToast(text string, level ToastLevel) tea.Cmd {
	return func() tea.Msg {
		return ShowToastMsg{Text: text, Level: level}
	}
}

// Toast is a minimal notification component. Shows a message in the
// bottom-right corner that auto-dismisses after 3 seconds.
type Toast struct {
	message   string
	level     ToastLevel
	visible   bool
	dismissAt time.Time
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays a toast with the given message and severity.
// The toast will auto-dismiss after 3 seconds.
func (t *Toast) Show(msg string, level ToastLevel) tea.Cmd {
	t.message = msg
	t.level = level
	t.visible = true
	t.dismissAt = time.Now().Add(3 * time.Second)
	return t.dismissCmd()
}

// dismissCmd returns a command that will dismiss the toast after the remaining time.
func (t *Toast) dismissCmd() tea.Cmd {
	remaining := time.Until(t.dismissAt)
	if remaining <= 0 {
		remaining = 1 * time.Millisecond
	}
	return tea.Tick(remaining, func(time.Time) tea.Msg {
		return ToastDismissMsg{}
	})
}

// Update handles messages for the toast component.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ShowToastMsg:
		return t.Show(msg.Text, msg.Level)
	case ToastDismissMsg:
		t.visible = false
		t.message = ""
		return nil
	}
	return nil
}

func (t *Toast) background() string {
	th := theme.Current()
	switch t.level {
	case ToastSuccess:
		return th.Success
	case ToastError:
		return th.Error
	default:
		return th.Info
	}
}

// View renders the toast at the given screen dimensions.
// Returns empty string if toast is not visible.
// Positions the toast in the bottom-right corner, above the status bar.
func (t *Toast) View(width, height int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	th := theme.Current()

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(t.background())).
		Padding(0, 1).
		Bold(true)

	content := style.Render(t.message)

	contentWidth := lipgloss.Width(content)
	if contentWidth > width-2 {
		content = style.Width(width - 2).Render(t.message)
	}

	// Position at row height-2, one row above the status bar.
	verticalPadding := height - 2
	if verticalPadding < 0 {
		verticalPadding = 0
	}

	var result string
	for i := 0; i < verticalPadding; i++ {
		result += "\n"
	}
	result += lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		PaddingRight(1).
		Render(content)

	return result
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Message returns the current toast message (empty if not visible).
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}
