package dialog

// Focusable is an interactive control that can hold keyboard focus inside a
// dialog surface.
type Focusable interface {
	Focus()
	Blur()
	Focused() bool
}

// Attachable lets a control report whether it is still part of the host's
// render tree. Controls that do not implement it are treated as attached,
// so focus restoration on close is always attempted for them.
type Attachable interface {
	Attached() bool
}

// Target registers one focusable control on a dialog surface.
//
// Disabled and Hidden are predicates rather than booleans: the focus order is
// recomputed on every Tab press, so a control that becomes disabled between
// keypresses (a submit button during validation, say) drops out of the cycle
// without any re-registration.
type Target struct {
	ID        string
	Control   Focusable
	Autofocus bool        // preferred initial focus when the surface opens
	Dismiss   bool        // header dismiss affordance; skipped by initial focus and Tab-cycling
	Disabled  func() bool // optional; nil means enabled
	Hidden    func() bool // optional; nil means visible
}

func (t Target) focusable() bool {
	if t.Control == nil {
		return false
	}
	if t.Disabled != nil && t.Disabled() {
		return false
	}
	if t.Hidden != nil && t.Hidden() {
		return false
	}
	return true
}

// ComputeFocusOrder returns the ordered focusable subset of the registered
// targets. It is a pure function of the targets' current state and is called
// fresh at open time and on every Tab press rather than cached, so dynamic
// content changes (an error control appearing mid-session) are honored.
func ComputeFocusOrder(targets []Target) []Target {
	order := make([]Target, 0, len(targets))
	for _, t := range targets {
		if t.focusable() {
			order = append(order, t)
		}
	}
	return order
}

// CycleTargets returns the Tab-cycle list for a focus order: every focusable
// target except dismiss controls, so cycling prioritizes content over the
// header close action. When only dismiss controls remain, the full order is
// used instead of leaving the user with nothing to cycle.
func CycleTargets(order []Target) []Target {
	cycle := make([]Target, 0, len(order))
	for _, t := range order {
		if !t.Dismiss {
			cycle = append(cycle, t)
		}
	}
	if len(cycle) == 0 {
		return order
	}
	return cycle
}
