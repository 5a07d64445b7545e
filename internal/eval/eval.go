// Package eval evaluates expressions against a single row.
//
// Evaluation follows SQL three-valued logic: comparisons and arithmetic
// involving NULL yield NULL, AND/OR treat NULL as unknown, and a filter
// keeps a row only when its predicate is exactly TRUE.
//
// This is runtime evaluation. It does not rewrite trees and plays no part
// in the optimizer's constant folding.
package eval

import (
	"errors"
	"fmt"

	"github.com/roach88/qcore/internal/ast"
	"github.com/roach88/qcore/internal/ir"
)

// Evaluation errors. Returned errors wrap one of these.
var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrDivisionByZero = errors.New("division by zero")
	ErrBadOperator    = errors.New("unsupported operator")
)

// Evaluate computes the value of e for row.
func Evaluate(e ast.Expression, row ir.Record) (ir.IRValue, error) {
	if e == nil {
		return nil, fmt.Errorf("evaluate nil expression")
	}
	res := ast.Visit[result](e, evaluator{row: row})
	return res.value, res.err
}

// Predicate evaluates e as a filter condition. NULL counts as false.
func Predicate(e ast.Expression, row ir.Record) (bool, error) {
	v, err := Evaluate(e, row)
	if err != nil {
		return false, err
	}
	switch val := v.(type) {
	case ir.IRBool:
		return bool(val), nil
	case ir.IRNull:
		return false, nil
	default:
		return false, fmt.Errorf("%w: condition %s is %s, not BOOLEAN", ErrTypeMismatch, e, ir.TypeName(v))
	}
}

type result struct {
	value ir.IRValue
	err   error
}

func fail(format string, args ...any) result {
	return result{err: fmt.Errorf(format, args...)}
}

type evaluator struct {
	row ir.Record
}

func (ev evaluator) VisitLiteral(l *ast.Literal) result {
	if l.Value == nil {
		return result{value: ir.IRNull{}}
	}
	return result{value: l.Value}
}

func (ev evaluator) VisitColumnRef(c *ast.ColumnRef) result {
	v, ok := ev.row[c.Name]
	if !ok {
		return fail("%w: %s", ErrUnknownColumn, c.Name)
	}
	if v == nil {
		return result{value: ir.IRNull{}}
	}
	return result{value: v}
}

func (ev evaluator) VisitUnary(u *ast.UnaryExpression) result {
	operand := ast.Visit[result](u.Operand, ev)
	if operand.err != nil {
		return operand
	}

	switch u.Operator {
	case ast.OpNot:
		switch v := operand.value.(type) {
		case ir.IRNull:
			return operand
		case ir.IRBool:
			return result{value: !v}
		default:
			return fail("%w: NOT %s", ErrTypeMismatch, ir.TypeName(v))
		}
	case ast.OpSub:
		switch v := operand.value.(type) {
		case ir.IRNull:
			return operand
		case ir.IRInt:
			return result{value: -v}
		default:
			return fail("%w: -%s", ErrTypeMismatch, ir.TypeName(v))
		}
	default:
		return fail("%w: unary %s", ErrBadOperator, u.Operator)
	}
}

func (ev evaluator) VisitBinary(b *ast.BinaryExpression) result {
	left := ast.Visit[result](b.Left, ev)
	if left.err != nil {
		return left
	}
	right := ast.Visit[result](b.Right, ev)
	if right.err != nil {
		return right
	}

	switch {
	case b.Operator.IsLogical():
		return logical(b.Operator, left.value, right.value)
	case b.Operator.IsComparison():
		return compare(b.Operator, left.value, right.value)
	case b.Operator.IsArithmetic():
		return arithmetic(b.Operator, left.value, right.value)
	default:
		return fail("%w: %s", ErrBadOperator, b.Operator)
	}
}

// truth maps a logical operand to true, false or unknown (ok=false).
func truth(op ast.Operator, v ir.IRValue) (value, known bool, err error) {
	switch val := v.(type) {
	case ir.IRNull:
		return false, false, nil
	case ir.IRBool:
		return bool(val), true, nil
	default:
		return false, false, fmt.Errorf("%w: %s operand is %s", ErrTypeMismatch, op, ir.TypeName(v))
	}
}

func logical(op ast.Operator, l, r ir.IRValue) result {
	lv, lknown, err := truth(op, l)
	if err != nil {
		return result{err: err}
	}
	rv, rknown, err := truth(op, r)
	if err != nil {
		return result{err: err}
	}

	if op == ast.OpAnd {
		switch {
		case (lknown && !lv) || (rknown && !rv):
			return result{value: ir.IRBool(false)}
		case lknown && rknown:
			return result{value: ir.IRBool(true)}
		default:
			return result{value: ir.IRNull{}}
		}
	}

	switch {
	case (lknown && lv) || (rknown && rv):
		return result{value: ir.IRBool(true)}
	case lknown && rknown:
		return result{value: ir.IRBool(false)}
	default:
		return result{value: ir.IRNull{}}
	}
}

func compare(op ast.Operator, l, r ir.IRValue) result {
	if ir.IsNull(l) || ir.IsNull(r) {
		return result{value: ir.IRNull{}}
	}
	if ir.TypeName(l) != ir.TypeName(r) {
		return fail("%w: cannot compare %s with %s", ErrTypeMismatch, ir.TypeName(l), ir.TypeName(r))
	}

	c := ir.Compare(l, r)
	var out bool
	switch op {
	case ast.OpEq:
		out = c == 0
	case ast.OpNotEq:
		out = c != 0
	case ast.OpLt:
		out = c < 0
	case ast.OpLtEq:
		out = c <= 0
	case ast.OpGt:
		out = c > 0
	case ast.OpGtEq:
		out = c >= 0
	}
	return result{value: ir.IRBool(out)}
}

func arithmetic(op ast.Operator, l, r ir.IRValue) result {
	if ir.IsNull(l) || ir.IsNull(r) {
		return result{value: ir.IRNull{}}
	}
	li, lok := l.(ir.IRInt)
	ri, rok := r.(ir.IRInt)
	if !lok || !rok {
		return fail("%w: %s %s %s", ErrTypeMismatch, ir.TypeName(l), op, ir.TypeName(r))
	}

	switch op {
	case ast.OpAdd:
		return result{value: li + ri}
	case ast.OpSub:
		return result{value: li - ri}
	case ast.OpMul:
		return result{value: li * ri}
	case ast.OpDiv:
		if ri == 0 {
			return result{err: ErrDivisionByZero}
		}
		return result{value: li / ri}
	case ast.OpMod:
		if ri == 0 {
			return result{err: ErrDivisionByZero}
		}
		return result{value: li % ri}
	default:
		return fail("%w: %s", ErrBadOperator, op)
	}
}
