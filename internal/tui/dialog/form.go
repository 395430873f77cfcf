package dialog

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// FormConfig configures a single-step submission dialog.
type FormConfig struct {
	Title           string
	Description     string
	SubmitLabel     string // primary action label; defaults to "Submit"
	SubmittingLabel string // primary label while submitting; falls back to SubmitLabel
	CancelLabel     string // secondary action label; defaults to "Cancel"
	OnSubmit        func() tea.Cmd
	OnCancel        func() tea.Cmd
	CloseOnBackdrop bool
	Width           int
	Lock            *ScrollLock
}

const (
	formSubmitID = "form-submit"
	formCancelID = "form-cancel"
)

// Form is the common case of a dialog housing a submission form: a Surface
// with a primary submit action and a secondary cancel action. It carries no
// state machine of its own beyond the submitting flag; field validation
// belongs to the caller.
type Form struct {
	surface *Surface
	cfg     FormConfig

	submitting bool
	submitBtn  *Button
	cancelBtn  *Button
	fields     []Target
	body       func(width int) string
}

// NewForm creates a closed form dialog.
func NewForm(cfg FormConfig) *Form {
	if cfg.SubmitLabel == "" {
		cfg.SubmitLabel = "Submit"
	}
	if cfg.CancelLabel == "" {
		cfg.CancelLabel = "Cancel"
	}

	f := &Form{
		cfg:       cfg,
		submitBtn: NewButton(cfg.SubmitLabel),
		cancelBtn: NewButton(cfg.CancelLabel),
	}
	f.surface = NewSurface(SurfaceOptions{
		Title:           cfg.Title,
		Description:     cfg.Description,
		OnClose:         f.Cancel,
		CloseOnBackdrop: cfg.CloseOnBackdrop,
		Width:           cfg.Width,
		Lock:            cfg.Lock,
	})
	f.applyTargets()
	return f
}

// SetFields registers the caller's field targets (inputs rendered by the
// body) ahead of the form's own submit/cancel buttons in the focus order.
func (f *Form) SetFields(fields ...Target) {
	f.fields = fields
	f.applyTargets()
}

// SetBody supplies the renderer for the form's field area.
func (f *Form) SetBody(body func(width int) string) { f.body = body }

func (f *Form) applyTargets() {
	targets := make([]Target, 0, len(f.fields)+2)
	targets = append(targets, f.fields...)
	targets = append(targets,
		Target{ID: formSubmitID, Control: f.submitBtn, Disabled: f.submitBtn.IsDisabled},
		Target{ID: formCancelID, Control: f.cancelBtn, Disabled: f.cancelBtn.IsDisabled},
	)
	f.surface.SetTargets(targets)
}

// Surface exposes the underlying dialog surface.
func (f *Form) Surface() *Surface { return f.surface }

// Open opens the dialog, capturing the previously focused control.
func (f *Form) Open(previous Focusable) {
	f.SetSubmitting(false)
	f.surface.Open(previous)
}

// Close closes the dialog and restores focus.
func (f *Form) Close() { f.surface.Close() }

// IsOpen reports whether the dialog is open.
func (f *Form) IsOpen() bool { return f.surface.IsOpen() }

// Submit invokes the submit handler. No-op while a submission is in flight.
func (f *Form) Submit() tea.Cmd {
	if f.submitting || f.cfg.OnSubmit == nil {
		return nil
	}
	return f.cfg.OnSubmit()
}

// Cancel invokes the cancel handler. No-op while a submission is in flight.
func (f *Form) Cancel() tea.Cmd {
	if f.submitting || f.cfg.OnCancel == nil {
		return nil
	}
	return f.cfg.OnCancel()
}

// SetSubmitting toggles the in-flight flag: both actions are disabled and
// the primary label swaps to its busy variant.
func (f *Form) SetSubmitting(submitting bool) {
	f.submitting = submitting
	f.submitBtn.SetDisabled(submitting)
	f.cancelBtn.SetDisabled(submitting)
	if submitting && f.cfg.SubmittingLabel != "" {
		f.submitBtn.SetLabel(f.cfg.SubmittingLabel)
	} else {
		f.submitBtn.SetLabel(f.cfg.SubmitLabel)
	}
}

// IsSubmitting reports whether a submission is in flight.
func (f *Form) IsSubmitting() bool { return f.submitting }

// SubmitLabel returns the primary action's current label.
func (f *Form) SubmitLabel() string { return f.submitBtn.Label() }

// Update routes input. Enter is always consumed by the dialog: on the cancel
// button it cancels, anywhere else it submits. Everything else goes to the
// surface (focus trap, Escape, backdrop).
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if !f.IsOpen() {
		return nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
		if f.surface.FocusedID() == formCancelID {
			return f.Cancel()
		}
		return f.Submit()
	}

	return f.surface.Update(msg)
}

// Render renders the dialog chrome, body, and action row.
func (f *Form) Render() string {
	width := f.surface.ContentWidth()

	var body string
	if f.body != nil {
		body = f.body(width)
	}

	row := RenderRow(width, f.submitBtn, f.cancelBtn)

	sections := []string{body, "", row}
	if f.submitting {
		hint := theme.Current().S().Hint.Render(f.submitBtn.Label())
		sections = append(sections, "", hint)
	}
	return f.surface.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Draw renders the dialog centered within area.
func (f *Form) Draw(scr uv.Screen, area uv.Rectangle) {
	if !f.IsOpen() {
		return
	}
	width := f.surface.ContentWidth()

	var body string
	if f.body != nil {
		body = f.body(width)
	}
	row := RenderRow(width, f.submitBtn, f.cancelBtn)
	content := lipgloss.JoinVertical(lipgloss.Left, body, "", row)
	f.surface.Draw(scr, area, content)
}
