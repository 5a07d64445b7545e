package operator

import (
	"context"
	"fmt"

	"github.com/roach88/qcore/internal/ast"
	"github.com/roach88/qcore/internal/eval"
	"github.com/roach88/qcore/internal/ir"
)

// Filter passes through the child rows for which the predicate is TRUE.
type Filter struct {
	lifecycle
	children
	predicate ast.Expression
}

// NewFilter creates a filter over child.
func NewFilter(child Operator, predicate ast.Expression) *Filter {
	return &Filter{
		lifecycle: lifecycle{kind: KindFilter},
		children:  children{ops: []Operator{child}},
		predicate: predicate,
	}
}

// Open implements Operator. The child is opened first; then the predicate
// is checked. A literal predicate that is not BOOLEAN or NULL can never be
// satisfied and fails the open.
func (f *Filter) Open(ctx context.Context) error {
	if err := f.beginOpen(); err != nil {
		return err
	}
	if err := f.children.open(ctx); err != nil {
		f.openFailed()
		return err
	}
	if err := checkPredicate(f.predicate); err != nil {
		f.openFailed()
		return newFailure(PhaseOpen, f.kind, CodeInvalidPlan, err)
	}
	return nil
}

func checkPredicate(e ast.Expression) error {
	if e == nil {
		return fmt.Errorf("filter has no predicate")
	}
	lit, ok := e.(*ast.Literal)
	if !ok {
		return nil
	}
	switch lit.Value.(type) {
	case ir.IRBool, ir.IRNull, nil:
		return nil
	default:
		return fmt.Errorf("predicate %s is %s, not BOOLEAN", lit, ir.TypeName(lit.Value))
	}
}

// Next implements Operator. It pulls from the child until a row qualifies
// or the child is exhausted.
func (f *Filter) Next(ctx context.Context) (Row, bool, error) {
	if err := f.checkNext(); err != nil {
		return nil, false, err
	}

	child := f.ops[0]
	for {
		row, ok, err := child.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}

		keep, err := eval.Predicate(f.predicate, row)
		if err != nil {
			return nil, false, newFailure(PhaseNext, f.kind, CodeEvaluation, err)
		}
		if keep {
			return row, true, nil
		}
	}
}

// Close implements Operator. Close is idempotent.
func (f *Filter) Close() error {
	if !f.beginClose() {
		return nil
	}
	return f.children.close()
}

// Describe implements Operator.
func (f *Filter) Describe() string {
	if f.predicate == nil {
		return "Filter <nil>"
	}
	return "Filter " + f.predicate.String()
}
