package operator

import (
	"errors"
	"fmt"
)

// Phase names the protocol call a failure happened in.
type Phase string

const (
	PhaseOpen  Phase = "open"
	PhaseNext  Phase = "next"
	PhaseClose Phase = "close"
)

// Code categorizes failures.
type Code string

const (
	// CodeIO indicates the storage collaborator failed.
	CodeIO Code = "IO"

	// CodeEvaluation indicates an expression could not be evaluated.
	CodeEvaluation Code = "EVALUATION"

	// CodeResource indicates a resource limit was hit.
	CodeResource Code = "RESOURCE"

	// CodeInvalidPlan indicates the operator was built with arguments it
	// cannot execute.
	CodeInvalidPlan Code = "INVALID_PLAN"

	// CodeMisuse indicates the lifecycle was violated by the caller.
	CodeMisuse Code = "MISUSE"
)

// Failure is the error every operator returns.
//
// A Failure is created once, by the operator where the problem arose, and
// returned unchanged by every parent above it.
type Failure struct {
	Phase    Phase
	Operator Kind
	Code     Code
	Err      error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", f.Operator, f.Phase, f.Code, f.Err)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// newFailure wraps err unless it already carries a Failure, in which case
// it is returned unchanged.
func newFailure(phase Phase, kind Kind, code Code, err error) error {
	var existing *Failure
	if errors.As(err, &existing) {
		return err
	}
	return &Failure{Phase: phase, Operator: kind, Code: code, Err: err}
}

// ErrMisuse is the cause of every CodeMisuse failure.
var ErrMisuse = errors.New("operator lifecycle misuse")

func misuse(phase Phase, kind Kind, detail string) error {
	return &Failure{
		Phase:    phase,
		Operator: kind,
		Code:     CodeMisuse,
		Err:      fmt.Errorf("%w: %s", ErrMisuse, detail),
	}
}

// IsMisuse reports whether err is a lifecycle misuse failure.
// Uses errors.As to handle wrapped errors.
func IsMisuse(err error) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code == CodeMisuse
	}
	return false
}

// Origin returns the operator kind a failure originated in.
func Origin(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Operator, true
	}
	return 0, false
}
