package testutil

import (
	"context"

	"github.com/roach88/qcore/internal/operator"
)

// Probe wraps an operator and counts protocol calls, optionally failing
// Open or Close with a fixed error.
type Probe struct {
	operator.Operator

	OpenErr  error
	CloseErr error

	Opens  int
	Nexts  int
	Closes int
}

// NewProbe wraps op.
func NewProbe(op operator.Operator) *Probe {
	return &Probe{Operator: op}
}

// Open counts the call, then opens the wrapped operator unless OpenErr is
// set.
func (p *Probe) Open(ctx context.Context) error {
	p.Opens++
	if p.OpenErr != nil {
		return p.OpenErr
	}
	return p.Operator.Open(ctx)
}

// Next counts the call and delegates.
func (p *Probe) Next(ctx context.Context) (operator.Row, bool, error) {
	p.Nexts++
	return p.Operator.Next(ctx)
}

// Close counts the call and delegates. CloseErr replaces a nil result.
func (p *Probe) Close() error {
	p.Closes++
	err := p.Operator.Close()
	if err == nil {
		err = p.CloseErr
	}
	return err
}

// Children exposes the wrapped operator's inputs so Explain sees through
// the probe.
func (p *Probe) Children() []operator.Operator {
	if parent, ok := p.Operator.(operator.Parent); ok {
		return parent.Children()
	}
	return nil
}
