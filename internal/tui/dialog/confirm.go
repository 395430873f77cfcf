package dialog

import (
	tea "charm.land/bubbletea/v2"
)

// Mode selects how many activations a Gate requires before firing.
type Mode int

const (
	// ModeDouble requires arming on the first activation and fires on the
	// second. The zero value, so gates default to the safer mode.
	ModeDouble Mode = iota
	// ModeSingle fires on the first activation.
	ModeSingle
)

// GateConfig configures a confirmation gate. All labels and hints are
// caller-supplied; the gate hardcodes no language.
type GateConfig struct {
	Mode              Mode
	ConfirmLabel      string // idle label of the confirm control
	ConfirmArmedLabel string // label once armed; falls back to ConfirmLabel
	ConfirmHint       string // idle live-region status text
	ConfirmArmedHint  string // armed live-region status text
	OnConfirm         func() tea.Cmd
	OnCancel          func() tea.Cmd
	OnArm             func() tea.Cmd // invoked on the idle-to-armed transition
}

// Gate is a small state machine that requires one or two discrete user
// activations before invoking an irreversible effect. The rendered label and
// status hint differ between idle and armed so assistive announcement gets
// the same signal as visual state.
type Gate struct {
	cfg   GateConfig
	armed bool
	busy  bool
}

// NewGate creates an idle gate.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{cfg: cfg}
}

// ActivateConfirm processes one activation of the confirm control.
// Busy gates ignore activation entirely, which guarantees at most one fire
// per arm cycle when the caller sets busy on the first invocation.
func (g *Gate) ActivateConfirm() tea.Cmd {
	if g.busy {
		return nil
	}
	if g.cfg.Mode == ModeSingle {
		return g.fire()
	}
	if !g.armed {
		g.armed = true
		if g.cfg.OnArm != nil {
			return g.cfg.OnArm()
		}
		return nil
	}
	return g.fire()
}

func (g *Gate) fire() tea.Cmd {
	g.armed = false
	if g.cfg.OnConfirm != nil {
		return g.cfg.OnConfirm()
	}
	return nil
}

// Cancel invokes the cancel effect and unconditionally disarms.
func (g *Gate) Cancel() tea.Cmd {
	g.armed = false
	if g.cfg.OnCancel != nil {
		return g.cfg.OnCancel()
	}
	return nil
}

// Disarm forces the gate back to idle without invoking anything. External
// resets (dialog closed, wizard step changed) go through here.
func (g *Gate) Disarm() { g.armed = false }

// Armed reports whether the next activation will fire.
func (g *Gate) Armed() bool { return g.armed }

// SetBusy suppresses or re-enables activation while an asynchronous confirm
// effect is outstanding.
func (g *Gate) SetBusy(busy bool) { g.busy = busy }

// Busy reports whether activation is currently suppressed.
func (g *Gate) Busy() bool { return g.busy }

// Mode returns the configured activation mode.
func (g *Gate) Mode() Mode { return g.cfg.Mode }

// Label returns the confirm control's current label.
func (g *Gate) Label() string {
	if g.armed && g.cfg.ConfirmArmedLabel != "" {
		return g.cfg.ConfirmArmedLabel
	}
	return g.cfg.ConfirmLabel
}

// Hint returns the live-region status text for the current state.
func (g *Gate) Hint() string {
	if g.armed && g.cfg.ConfirmArmedHint != "" {
		return g.cfg.ConfirmArmedHint
	}
	return g.cfg.ConfirmHint
}
