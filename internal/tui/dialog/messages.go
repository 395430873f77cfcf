package dialog

// AdvanceResultMsg carries the outcome of a step's forward-validator back
// into the wizard's update loop.
type AdvanceResultMsg struct {
	Generation int
	StepID     string
	OK         bool
}

// CompletionResultMsg carries the outcome of the terminal completion
// callback back into the wizard's update loop.
type CompletionResultMsg struct {
	Generation int
	Success    bool
}
