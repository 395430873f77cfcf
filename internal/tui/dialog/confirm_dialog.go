package dialog

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// ConfirmConfig configures a standalone confirmation dialog.
type ConfirmConfig struct {
	Title           string
	Description     string
	Gate            GateConfig
	CancelLabel     string // defaults to "Cancel"
	OnClose         CloseFunc
	CloseOnBackdrop bool
	Width           int
	Lock            *ScrollLock
}

const (
	confirmActionID = "confirm-action"
	confirmCancelID = "confirm-cancel"
)

// Confirm is a Surface around a Gate: the standalone flavor of the same
// arm-then-fire machine the wizard embeds for its terminal step.
type Confirm struct {
	surface *Surface
	gate    *Gate

	confirmBtn *Button
	cancelBtn  *Button
}

// NewConfirm creates a closed confirmation dialog.
func NewConfirm(cfg ConfirmConfig) *Confirm {
	if cfg.CancelLabel == "" {
		cfg.CancelLabel = "Cancel"
	}

	c := &Confirm{
		cancelBtn: NewButton(cfg.CancelLabel),
	}
	c.gate = NewGate(cfg.Gate)
	c.confirmBtn = NewButton(c.gate.Label())

	onClose := cfg.OnClose
	c.surface = NewSurface(SurfaceOptions{
		Title:       cfg.Title,
		Description: cfg.Description,
		// Escape while armed steps back to idle instead of dismissing.
		OnClose: func() tea.Cmd {
			if c.gate.Armed() {
				c.gate.Disarm()
				return nil
			}
			if onClose != nil {
				return onClose()
			}
			return nil
		},
		CloseOnBackdrop: cfg.CloseOnBackdrop,
		Width:           cfg.Width,
		Lock:            cfg.Lock,
	})
	c.surface.SetTargets([]Target{
		{ID: confirmActionID, Control: c.confirmBtn, Disabled: c.gate.Busy},
		{ID: confirmCancelID, Control: c.cancelBtn, Disabled: c.gate.Busy},
	})
	return c
}

// Open opens the dialog with the gate idle.
func (c *Confirm) Open(previous Focusable) {
	c.gate.Disarm()
	c.gate.SetBusy(false)
	c.surface.Open(previous)
}

// Close closes the dialog and disarms the gate.
func (c *Confirm) Close() {
	c.gate.Disarm()
	c.surface.Close()
}

// IsOpen reports whether the dialog is open.
func (c *Confirm) IsOpen() bool { return c.surface.IsOpen() }

// Surface exposes the underlying dialog surface.
func (c *Confirm) Surface() *Surface { return c.surface }

// Gate exposes the confirmation state machine.
func (c *Confirm) Gate() *Gate { return c.gate }

// SetBusy suppresses activation while the confirm effect is outstanding.
func (c *Confirm) SetBusy(busy bool) { c.gate.SetBusy(busy) }

// Update routes input. Enter activates whichever action holds focus.
func (c *Confirm) Update(msg tea.Msg) tea.Cmd {
	if !c.IsOpen() {
		return nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
		if c.surface.FocusedID() == confirmCancelID {
			return c.gate.Cancel()
		}
		return c.gate.ActivateConfirm()
	}

	return c.surface.Update(msg)
}

func (c *Confirm) renderContent() string {
	c.confirmBtn.SetLabel(c.gate.Label())
	width := c.surface.ContentWidth()

	sections := []string{RenderRow(width, c.confirmBtn, c.cancelBtn)}
	if hint := c.gate.Hint(); hint != "" {
		style := theme.Current().S().Hint
		if c.gate.Armed() {
			style = theme.Current().S().Warning
		}
		sections = append(sections, "", style.Width(width).Render(hint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Render renders the dialog chrome and actions.
func (c *Confirm) Render() string {
	return c.surface.Render(c.renderContent())
}

// Draw renders the dialog centered within area.
func (c *Confirm) Draw(scr uv.Screen, area uv.Rectangle) {
	if !c.IsOpen() {
		return
	}
	c.surface.Draw(scr, area, c.renderContent())
}
