package workflow

import (
	"errors"
	"fmt"

	"PitchGuard/internal/safety"
)

// ValidationError marks recoverable caller mistakes: empty request text,
// empty recipient list, missing sender name. State is never changed by one.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SafetyBlockedError carries the guardrail verdict that stopped a round.
// Recoverable by rephrasing; never silently bypassed.
type SafetyBlockedError struct {
	Direction string // "input" or "output"
	Verdict   safety.Verdict
}

func (e *SafetyBlockedError) Error() string {
	return fmt.Sprintf("%s blocked by safety guardrail (risk %.2f): %v",
		e.Direction, e.Verdict.RiskScore, e.Verdict.FlaggedIssues)
}

// StateError marks a call that is illegal in the workflow's current state,
// such as overlapping submits or approving with nothing pending.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

// ErrAlreadyApproved is the idempotent-no-op outcome of a second approve on
// the same draft.
var ErrAlreadyApproved = errors.New("draft already approved")

// ErrRoundTimeout means one round exceeded its overall ceiling. Fatal to
// that round only; the workflow is resettable.
var ErrRoundTimeout = errors.New("round exceeded its time ceiling")
