package operator

import (
	"context"
	"fmt"
	"strconv"
)

// Limit yields at most n rows of its child. Once n rows have been returned
// the child is not pulled again.
type Limit struct {
	lifecycle
	children
	n    int64
	seen int64
}

// NewLimit creates a limit over child.
func NewLimit(child Operator, n int64) *Limit {
	return &Limit{
		lifecycle: lifecycle{kind: KindLimit},
		children:  children{ops: []Operator{child}},
		n:         n,
	}
}

// Open implements Operator.
func (l *Limit) Open(ctx context.Context) error {
	if err := l.beginOpen(); err != nil {
		return err
	}
	if err := l.children.open(ctx); err != nil {
		l.openFailed()
		return err
	}
	if l.n < 0 {
		l.openFailed()
		return newFailure(PhaseOpen, l.kind, CodeInvalidPlan, fmt.Errorf("negative limit %d", l.n))
	}
	return nil
}

// Next implements Operator.
func (l *Limit) Next(ctx context.Context) (Row, bool, error) {
	if err := l.checkNext(); err != nil {
		return nil, false, err
	}
	if l.seen >= l.n {
		return nil, false, nil
	}
	row, ok, err := l.ops[0].Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	l.seen++
	return row, true, nil
}

// Close implements Operator. Close is idempotent.
func (l *Limit) Close() error {
	if !l.beginClose() {
		return nil
	}
	return l.children.close()
}

// Describe implements Operator.
func (l *Limit) Describe() string {
	return "Limit " + strconv.FormatInt(l.n, 10)
}
