package dialog

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/gosimple/slug"

	"github.com/syntax-syndicate/modality/internal/logger"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// Step is one entry in a wizard's linear sequence.
type Step struct {
	ID        string
	Title     string
	Content   func(width int) string
	Validate  func(ctx context.Context) bool // forward-validator; nil means always pass
	OnBack    func()                         // notification when navigated back onto; cannot veto
	NextLabel string                         // label of the forward control while on this step
	Targets   []Target                       // extra focusables rendered by Content
	Update    func(msg tea.Msg) tea.Cmd      // input routing for this step's own controls
}

// NewStep creates a step whose ID is derived from its title.
func NewStep(title string) Step {
	return Step{ID: slug.Make(title), Title: title}
}

// WizardConfig configures a multi-step wizard dialog.
type WizardConfig struct {
	Title           string
	Description     string
	Steps           []Step
	InitialStepID   string // optional; falls back to the first step when absent
	Confirm         GateConfig
	OnClose         CloseFunc       // honored close request
	OnComplete      func(ctx context.Context) bool
	OnSuccess       func() tea.Cmd      // invoked after a successful completion
	OnStepChange    func(stepID string) // notification when the active step moves
	CloseOnBackdrop bool
	Width           int
	Lock            *ScrollLock
	NextLabel       string // default forward label; "Next" when empty
	BackLabel       string // default back label; "Back" when empty
}

const (
	wizardNextID = "wizard-next"
	wizardBackID = "wizard-back"
)

// Wizard drives a linear step sequence behind a dialog surface. Forward
// navigation is gated by each step's validator, the terminal step is gated
// by an embedded confirmation Gate, and both the validator and the
// completion callback run off the update loop as commands.
//
// Results from in-flight commands carry the generation current when they
// were launched. Close bumps the generation, so a result that settles after
// the wizard closed (or closed and reopened) is discarded instead of
// mutating the fresh session.
type Wizard struct {
	surface *Surface
	cfg     WizardConfig
	gate    *Gate

	nextBtn *Button
	backBtn *Button

	active     int
	generation int
	validating bool
	completing bool
}

// NewWizard creates a closed wizard.
func NewWizard(cfg WizardConfig) *Wizard {
	if cfg.NextLabel == "" {
		cfg.NextLabel = "Next"
	}
	if cfg.BackLabel == "" {
		cfg.BackLabel = "Back"
	}

	w := &Wizard{
		cfg:     cfg,
		nextBtn: NewButton(cfg.NextLabel),
		backBtn: NewButton(cfg.BackLabel),
	}

	gateCfg := cfg.Confirm
	gateCfg.OnConfirm = w.startCompletion
	gateCfg.OnCancel = nil
	w.gate = NewGate(gateCfg)

	w.surface = NewSurface(SurfaceOptions{
		Title:           cfg.Title,
		Description:     cfg.Description,
		OnClose:         w.requestClose,
		CloseOnBackdrop: cfg.CloseOnBackdrop,
		Width:           cfg.Width,
		Lock:            cfg.Lock,
	})
	return w
}

// initialIndex resolves the configured initial step, falling back to the
// first step when the ID is absent from the sequence.
func (w *Wizard) initialIndex() int {
	if w.cfg.InitialStepID != "" {
		for i, s := range w.cfg.Steps {
			if s.ID == w.cfg.InitialStepID {
				return i
			}
		}
	}
	return 0
}

// Open opens the wizard on its initial step with the confirmation idle.
// Re-entry always resets: where the previous session left off is forgotten.
func (w *Wizard) Open(previous Focusable) {
	if w.surface.IsOpen() || len(w.cfg.Steps) == 0 {
		return
	}
	w.active = w.initialIndex()
	w.gate.Disarm()
	w.gate.SetBusy(false)
	w.validating = false
	w.completing = false
	w.generation++
	w.applyStepTargets()
	w.surface.Open(previous)
}

// Close closes the wizard. The generation bump orphans any in-flight
// validator or completion result.
func (w *Wizard) Close() {
	if !w.surface.IsOpen() {
		return
	}
	w.generation++
	w.validating = false
	w.completing = false
	w.gate.Disarm()
	w.gate.SetBusy(false)
	w.surface.Close()
}

// IsOpen reports whether the wizard is open.
func (w *Wizard) IsOpen() bool { return w.surface.IsOpen() }

// Surface exposes the underlying dialog surface.
func (w *Wizard) Surface() *Surface { return w.surface }

// Gate exposes the embedded terminal confirmation gate.
func (w *Wizard) Gate() *Gate { return w.gate }

// ActiveStep returns the active step.
func (w *Wizard) ActiveStep() Step { return w.cfg.Steps[w.active] }

// ActiveStepID returns the active step's ID.
func (w *Wizard) ActiveStepID() string { return w.cfg.Steps[w.active].ID }

// ActiveIndex returns the active step's position in the sequence.
func (w *Wizard) ActiveIndex() int { return w.active }

// Busy reports whether a validator or completion callback is in flight.
// Hosts use this to disable the controls that would issue another
// transition; the engine itself also ignores Advance/Retreat while busy.
func (w *Wizard) Busy() bool { return w.validating || w.completing }

// IsCompleting reports whether the completion callback is in flight.
func (w *Wizard) IsCompleting() bool { return w.completing }

func (w *Wizard) onLastStep() bool { return w.active == len(w.cfg.Steps)-1 }

// NextLabel returns the forward control's current label: the gate's label on
// the terminal step, the step's own override or the wizard default elsewhere.
func (w *Wizard) NextLabel() string {
	if w.onLastStep() {
		return w.gate.Label()
	}
	if l := w.cfg.Steps[w.active].NextLabel; l != "" {
		return l
	}
	return w.cfg.NextLabel
}

// Advance runs the active step's validator and, on a pass, either moves to
// the next step or activates the terminal confirmation. No-op while a
// previous transition is still in flight.
func (w *Wizard) Advance() tea.Cmd {
	if !w.IsOpen() || w.Busy() {
		return nil
	}

	step := w.cfg.Steps[w.active]
	if step.Validate == nil {
		return w.advanceValidated()
	}

	w.validating = true
	w.syncControls()
	gen := w.generation
	id := step.ID
	validate := step.Validate
	return func() tea.Msg {
		return AdvanceResultMsg{Generation: gen, StepID: id, OK: validate(context.Background())}
	}
}

// advanceValidated applies a passed forward transition.
func (w *Wizard) advanceValidated() tea.Cmd {
	if !w.onLastStep() {
		w.setActive(w.active + 1)
		return nil
	}
	cmd := w.gate.ActivateConfirm()
	w.syncControls()
	return cmd
}

// startCompletion launches the asynchronous completion callback. Installed
// as the gate's confirm effect, so it runs only once the gate fires.
func (w *Wizard) startCompletion() tea.Cmd {
	if w.cfg.OnComplete == nil {
		return nil
	}
	w.completing = true
	w.gate.SetBusy(true)
	gen := w.generation
	complete := w.cfg.OnComplete
	return func() tea.Msg {
		return CompletionResultMsg{Generation: gen, Success: complete(context.Background())}
	}
}

// Retreat moves to the previous step, or requests close from the first step.
// The destination step's back-hook fires after the move; it cannot veto.
func (w *Wizard) Retreat() tea.Cmd {
	if !w.IsOpen() || w.Busy() {
		return nil
	}
	if w.active == 0 {
		if w.cfg.OnClose != nil {
			return w.cfg.OnClose()
		}
		return nil
	}
	w.setActive(w.active - 1)
	if hook := w.cfg.Steps[w.active].OnBack; hook != nil {
		hook()
	}
	return nil
}

// SelectStep jumps backward to an already-completed step. Forward jumps and
// self-jumps are rejected. Returns whether the jump happened.
func (w *Wizard) SelectStep(id string) bool {
	if !w.IsOpen() || w.Busy() {
		return false
	}
	for i, s := range w.cfg.Steps {
		if s.ID != id {
			continue
		}
		if i >= w.active {
			return false
		}
		w.setActive(i)
		if s.OnBack != nil {
			s.OnBack()
		}
		return true
	}
	return false
}

// setActive moves the active step and enforces the step-change contracts:
// the confirmation disarms and the step's targets replace the surface's.
func (w *Wizard) setActive(idx int) {
	w.active = idx
	w.gate.Disarm()
	w.applyStepTargets()
	logger.Debug("wizard %q on step %q", w.cfg.Title, w.cfg.Steps[idx].ID)
	if w.cfg.OnStepChange != nil {
		w.cfg.OnStepChange(w.cfg.Steps[idx].ID)
	}
}

// requestClose is the surface's dismissal policy: while the terminal
// confirmation is armed, Escape backs out of the arm instead of closing.
func (w *Wizard) requestClose() tea.Cmd {
	if w.gate.Armed() {
		w.gate.Disarm()
		return nil
	}
	if w.cfg.OnClose != nil {
		return w.cfg.OnClose()
	}
	return nil
}

func (w *Wizard) applyStepTargets() {
	step := w.cfg.Steps[w.active]
	targets := make([]Target, 0, len(step.Targets)+2)
	targets = append(targets, step.Targets...)
	targets = append(targets,
		Target{ID: wizardNextID, Control: w.nextBtn, Disabled: w.nextBtn.IsDisabled},
		Target{ID: wizardBackID, Control: w.backBtn, Disabled: w.backBtn.IsDisabled},
	)
	w.surface.SetTargets(targets)
	w.syncControls()
}

// syncControls refreshes the button labels and disabled flags from the
// engine's state.
func (w *Wizard) syncControls() {
	w.nextBtn.SetLabel(w.NextLabel())
	w.nextBtn.SetDisabled(w.Busy())
	w.backBtn.SetDisabled(w.Busy())
}

// Update routes input and settles in-flight transition results.
func (w *Wizard) Update(msg tea.Msg) tea.Cmd {
	if !w.IsOpen() {
		return nil
	}

	switch msg := msg.(type) {
	case AdvanceResultMsg:
		if msg.Generation != w.generation {
			return nil
		}
		w.validating = false
		w.syncControls()
		if !msg.OK {
			logger.Debug("wizard %q step %q vetoed advance", w.cfg.Title, msg.StepID)
			return nil
		}
		return w.advanceValidated()

	case CompletionResultMsg:
		if msg.Generation != w.generation {
			return nil
		}
		w.completing = false
		w.gate.SetBusy(false)
		if !msg.Success {
			// Rejected completion: stay on the terminal step and force a
			// full re-arm before the next attempt.
			w.gate.Disarm()
			w.syncControls()
			return nil
		}
		w.syncControls()
		if w.cfg.OnSuccess != nil {
			return w.cfg.OnSuccess()
		}
		return nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			if w.surface.FocusedID() == wizardBackID {
				return w.Retreat()
			}
			return w.Advance()
		}
	}

	if handler := w.cfg.Steps[w.active].Update; handler != nil {
		if cmd := handler(msg); cmd != nil {
			return cmd
		}
	}
	return w.surface.Update(msg)
}

// renderRail renders the step navigation rail. Completed steps are marked
// filled, the active step highlighted, upcoming steps dimmed.
func (w *Wizard) renderRail() string {
	t := theme.Current()
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	current := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	upcoming := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	parts := make([]string, 0, len(w.cfg.Steps))
	for i, s := range w.cfg.Steps {
		label := fmt.Sprintf("%d %s", i+1, s.Title)
		switch {
		case i < w.active:
			parts = append(parts, done.Render("● "+label))
		case i == w.active:
			parts = append(parts, current.Render("● "+label))
		default:
			parts = append(parts, upcoming.Render("○ "+label))
		}
	}
	return strings.Join(parts, upcoming.Render("  ·  "))
}

func (w *Wizard) renderContent() string {
	w.syncControls()
	width := w.surface.ContentWidth()
	step := w.cfg.Steps[w.active]

	var body string
	if step.Content != nil {
		body = step.Content(width)
	}

	sections := []string{w.renderRail(), "", body, "", RenderRow(width, w.backBtn, w.nextBtn)}
	if w.onLastStep() {
		if hint := w.gate.Hint(); hint != "" {
			style := theme.Current().S().Hint
			if w.gate.Armed() {
				style = theme.Current().S().Warning
			}
			sections = append(sections, "", style.Width(width).Render(hint))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Render renders the full wizard: rail, step content, controls, and the
// gate's live status hint on the terminal step.
func (w *Wizard) Render() string {
	return w.surface.Render(w.renderContent())
}

// Draw renders the wizard centered within area.
func (w *Wizard) Draw(scr uv.Screen, area uv.Rectangle) {
	if !w.IsOpen() {
		return
	}
	w.surface.Draw(scr, area, w.renderContent())
}
