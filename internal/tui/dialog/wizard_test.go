package dialog

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type wizardHarness struct {
	w         *Wizard
	completed int
	succeeded int
	closed    int
	backHooks []string
}

// newWizardHarness builds a three-step wizard: step a gates forward on
// validatorResult, step b is free, step c double-confirms before completion.
func newWizardHarness(validatorResult *bool, completeResult *bool) *wizardHarness {
	h := &wizardHarness{}
	h.w = NewWizard(WizardConfig{
		Title: "Setup",
		Steps: []Step{
			{
				ID:    "a",
				Title: "A",
				Validate: func(context.Context) bool {
					return *validatorResult
				},
				OnBack: func() { h.backHooks = append(h.backHooks, "a") },
			},
			{
				ID:     "b",
				Title:  "B",
				OnBack: func() { h.backHooks = append(h.backHooks, "b") },
			},
			{
				ID:    "c",
				Title: "C",
			},
		},
		Confirm: GateConfig{
			Mode:              ModeDouble,
			ConfirmLabel:      "Finish",
			ConfirmArmedLabel: "Confirm finish",
		},
		OnClose: func() tea.Cmd { h.closed++; h.w.Close(); return nil },
		OnComplete: func(context.Context) bool {
			h.completed++
			return *completeResult
		},
		OnSuccess: func() tea.Cmd { h.succeeded++; return nil },
	})
	return h
}

// settle runs a returned command and feeds its message back, like the
// runtime would.
func (h *wizardHarness) settle(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	return h.w.Update(msg)
}

func TestWizardHappyPath(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)

	if h.w.ActiveStepID() != "a" {
		t.Fatalf("Expected initial step a, got %q", h.w.ActiveStepID())
	}

	// A's validator passes asynchronously.
	cmd := h.w.Advance()
	if !h.w.Busy() {
		t.Error("Expected wizard busy while validator in flight")
	}
	h.settle(cmd)
	if h.w.ActiveStepID() != "b" {
		t.Fatalf("Expected step b after validated advance, got %q", h.w.ActiveStepID())
	}

	// B has no validator, the transition is synchronous.
	if cmd := h.w.Advance(); cmd != nil {
		t.Error("Expected synchronous advance without validator")
	}
	if h.w.ActiveStepID() != "c" {
		t.Fatalf("Expected step c, got %q", h.w.ActiveStepID())
	}

	// First activation arms, completion does not run.
	h.w.Advance()
	if !h.w.Gate().Armed() {
		t.Fatal("Expected gate armed after first terminal activation")
	}
	if h.completed != 0 {
		t.Fatalf("Completion must not run while arming, ran %d times", h.completed)
	}
	if h.w.NextLabel() != "Confirm finish" {
		t.Errorf("Expected armed label on forward control, got %q", h.w.NextLabel())
	}

	// Second activation launches completion.
	cmd = h.w.Advance()
	if cmd == nil {
		t.Fatal("Expected completion command from second activation")
	}
	if !h.w.IsCompleting() {
		t.Error("Expected completing flag while callback in flight")
	}
	h.settle(cmd)

	if h.completed != 1 {
		t.Errorf("Expected completion to run exactly once, ran %d times", h.completed)
	}
	if h.succeeded != 1 {
		t.Errorf("Expected success effect once, got %d", h.succeeded)
	}
	if h.w.IsCompleting() || h.w.Gate().Armed() {
		t.Error("Expected completing and armed state reset after success")
	}
}

func TestWizardValidatorVeto(t *testing.T) {
	pass, ok := false, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)

	h.settle(h.w.Advance())
	if h.w.ActiveStepID() != "a" {
		t.Errorf("Expected vetoed advance to stay on step a, got %q", h.w.ActiveStepID())
	}
	if h.w.Busy() {
		t.Error("Expected busy flag cleared after veto settles")
	}

	// The veto is recoverable: a later pass advances.
	pass = true
	h.settle(h.w.Advance())
	if h.w.ActiveStepID() != "b" {
		t.Errorf("Expected advance after validator recovers, got %q", h.w.ActiveStepID())
	}
}

func TestWizardCompletionRejection(t *testing.T) {
	pass, ok := true, false
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)
	h.settle(h.w.Advance())
	h.w.Advance()

	h.w.Advance() // arm
	h.settle(h.w.Advance())

	if h.completed != 1 {
		t.Fatalf("Expected one completion attempt, got %d", h.completed)
	}
	if !h.w.IsOpen() || h.w.ActiveStepID() != "c" {
		t.Error("Expected wizard to stay open on the terminal step")
	}
	if h.w.IsCompleting() {
		t.Error("Expected completing flag reset after rejection")
	}
	if h.w.Gate().Armed() {
		t.Error("Expected full disarm after rejection, re-arming required to retry")
	}

	// Retry needs the full double activation again.
	ok = true
	h.w.Advance()
	if h.completed != 1 {
		t.Fatal("Single activation after rejection must not complete")
	}
	h.settle(h.w.Advance())
	if h.completed != 2 || h.succeeded != 1 {
		t.Errorf("Expected retry to complete, attempts=%d successes=%d", h.completed, h.succeeded)
	}
}

func TestWizardRetreatAndBackHooks(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)
	h.settle(h.w.Advance())
	h.w.Advance() // on c

	h.w.Retreat()
	if h.w.ActiveStepID() != "b" {
		t.Fatalf("Expected retreat to b, got %q", h.w.ActiveStepID())
	}
	if len(h.backHooks) != 1 || h.backHooks[0] != "b" {
		t.Errorf("Expected destination back-hook to fire, got %v", h.backHooks)
	}

	h.w.Retreat()
	if h.w.ActiveStepID() != "a" {
		t.Fatalf("Expected retreat to a, got %q", h.w.ActiveStepID())
	}

	// Retreat from the first step requests close instead.
	h.w.Retreat()
	if h.closed != 1 {
		t.Errorf("Expected close request from first-step retreat, got %d", h.closed)
	}
	if h.w.IsOpen() {
		t.Error("Expected wizard closed")
	}
}

func TestWizardRetreatDisarmsGate(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)
	h.settle(h.w.Advance())
	h.w.Advance()
	h.w.Advance() // arm on c

	h.w.Retreat()
	if h.w.Gate().Armed() {
		t.Error("Expected step change to disarm the gate")
	}

	// Coming back to c must require arming from scratch.
	h.w.Advance()
	h.w.Advance()
	if !h.w.Gate().Armed() || h.completed != 0 {
		t.Errorf("Expected fresh arm on return, armed=%v completed=%d", h.w.Gate().Armed(), h.completed)
	}
}

func TestWizardReopenResets(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)
	h.settle(h.w.Advance())
	h.w.Advance()
	h.w.Advance() // armed on c

	h.w.Close()
	h.w.Open(nil)

	if h.w.ActiveStepID() != "a" {
		t.Errorf("Expected reopen on initial step, got %q", h.w.ActiveStepID())
	}
	if h.w.Gate().Armed() {
		t.Error("Expected gate idle on reopen")
	}
}

func TestWizardNoForwardJump(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)

	if h.w.SelectStep("c") {
		t.Error("Forward jump must be rejected")
	}
	if h.w.SelectStep("a") {
		t.Error("Self jump must be rejected")
	}
	if h.w.ActiveStepID() != "a" {
		t.Errorf("Expected step unchanged, got %q", h.w.ActiveStepID())
	}

	h.settle(h.w.Advance())
	h.w.Advance() // on c
	if !h.w.SelectStep("a") {
		t.Fatal("Backward jump to a completed step must be honored")
	}
	if h.w.ActiveStepID() != "a" {
		t.Errorf("Expected jump to a, got %q", h.w.ActiveStepID())
	}
	if len(h.backHooks) == 0 || h.backHooks[len(h.backHooks)-1] != "a" {
		t.Errorf("Expected target's back-hook to fire, got %v", h.backHooks)
	}
}

func TestWizardStaleResultDiscarded(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)

	// Validator launched, then the wizard closes before it settles.
	cmd := h.w.Advance()
	h.w.Close()
	h.w.Open(nil)

	h.settle(cmd)
	if h.w.ActiveStepID() != "a" {
		t.Errorf("Stale validator result must not advance the fresh session, got %q", h.w.ActiveStepID())
	}
	if h.w.Busy() {
		t.Error("Fresh session must not inherit the busy flag")
	}
}

func TestWizardBusyIgnoresTransitions(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)

	cmd := h.w.Advance()
	if extra := h.w.Advance(); extra != nil {
		t.Error("Second advance while busy must be ignored")
	}
	if extra := h.w.Retreat(); extra != nil {
		t.Error("Retreat while busy must be ignored")
	}
	if h.w.SelectStep("a") {
		t.Error("Step selection while busy must be ignored")
	}

	h.settle(cmd)
	if h.w.ActiveStepID() != "b" {
		t.Errorf("Expected exactly one transition, got step %q", h.w.ActiveStepID())
	}
}

func TestWizardEscapeDisarmsBeforeClosing(t *testing.T) {
	pass, ok := true, true
	h := newWizardHarness(&pass, &ok)
	h.w.Open(nil)
	h.settle(h.w.Advance())
	h.w.Advance()
	h.w.Advance() // armed on c

	esc := tea.KeyPressMsg{Code: tea.KeyEscape}
	h.w.Update(esc)
	if h.closed != 0 {
		t.Fatal("Escape while armed must disarm, not close")
	}
	if h.w.Gate().Armed() {
		t.Fatal("Expected gate disarmed by Escape")
	}

	h.w.Update(esc)
	if h.closed != 1 {
		t.Errorf("Expected second Escape to close, got %d requests", h.closed)
	}
}

func TestWizardStepChangeHook(t *testing.T) {
	var moves []string
	pass := true
	w := NewWizard(WizardConfig{
		Title: "Setup",
		Steps: []Step{
			{ID: "a", Title: "A", Validate: func(context.Context) bool { return pass }},
			{ID: "b", Title: "B"},
			{ID: "c", Title: "C"},
		},
		OnStepChange: func(id string) { moves = append(moves, id) },
	})
	settle := func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}
		if msg := cmd(); msg != nil {
			w.Update(msg)
		}
	}

	w.Open(nil)
	if len(moves) != 0 {
		t.Fatalf("Opening is not a step change, got %v", moves)
	}

	settle(w.Advance())
	w.Advance()
	w.Retreat()
	if got := []string{"b", "c", "b"}; len(moves) != 3 || moves[0] != got[0] || moves[1] != got[1] || moves[2] != got[2] {
		t.Fatalf("Expected hook per move %v, got %v", got, moves)
	}

	w.SelectStep("a")
	if moves[len(moves)-1] != "a" {
		t.Errorf("Expected hook on backward jump, got %v", moves)
	}

	// A vetoed advance never moves, so the hook stays quiet.
	pass = false
	before := len(moves)
	settle(w.Advance())
	if len(moves) != before {
		t.Errorf("Vetoed advance must not report a step change, got %v", moves)
	}
}

func TestWizardInitialStepID(t *testing.T) {
	w := NewWizard(WizardConfig{
		Title:         "Setup",
		InitialStepID: "b",
		Steps:         []Step{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
	})
	w.Open(nil)
	if w.ActiveStepID() != "b" {
		t.Errorf("Expected supplied initial step, got %q", w.ActiveStepID())
	}

	w2 := NewWizard(WizardConfig{
		Title:         "Setup",
		InitialStepID: "missing",
		Steps:         []Step{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
	})
	w2.Open(nil)
	if w2.ActiveStepID() != "a" {
		t.Errorf("Expected fallback to first step, got %q", w2.ActiveStepID())
	}
}

func TestNewStepDerivesID(t *testing.T) {
	s := NewStep("Project Settings")
	if s.ID != "project-settings" {
		t.Errorf("Expected slugged ID, got %q", s.ID)
	}
}
