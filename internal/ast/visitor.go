package ast

import (
	"fmt"

	"github.com/roach88/qcore/internal/ir"
)

// Visitor handles every Expression variant. Implementations produce a
// result of type T per node; recursion into children is up to the visitor.
//
// Adding an Expression variant adds a method here, so every visitor in the
// codebase must handle it before the build succeeds.
type Visitor[T any] interface {
	VisitLiteral(*Literal) T
	VisitColumnRef(*ColumnRef) T
	VisitBinary(*BinaryExpression) T
	VisitUnary(*UnaryExpression) T
}

// Visit dispatches e to the matching Visitor method.
//
// Visit panics on a nil expression; callers holding an optional condition
// check Optional.Get first.
func Visit[T any](e Expression, v Visitor[T]) T {
	switch n := e.(type) {
	case *Literal:
		return v.VisitLiteral(n)
	case *ColumnRef:
		return v.VisitColumnRef(n)
	case *BinaryExpression:
		return v.VisitBinary(n)
	case *UnaryExpression:
		return v.VisitUnary(n)
	default:
		// Unreachable: Expression is sealed to the cases above.
		panic(fmt.Sprintf("ast: unknown expression type %T", e))
	}
}

// Equal reports whether two expression trees are structurally equal.
// Literal declared types are part of the comparison.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return Visit[bool](a, equalVisitor{other: b})
}

type equalVisitor struct {
	other Expression
}

func (v equalVisitor) VisitLiteral(l *Literal) bool {
	o := v.other.(*Literal)
	return l.DeclaredType == o.DeclaredType && ir.Equal(l.Value, o.Value)
}

func (v equalVisitor) VisitColumnRef(c *ColumnRef) bool {
	return c.Name == v.other.(*ColumnRef).Name
}

func (v equalVisitor) VisitBinary(b *BinaryExpression) bool {
	o := v.other.(*BinaryExpression)
	return b.Operator == o.Operator && Equal(b.Left, o.Left) && Equal(b.Right, o.Right)
}

func (v equalVisitor) VisitUnary(u *UnaryExpression) bool {
	o := v.other.(*UnaryExpression)
	return u.Operator == o.Operator && Equal(u.Operand, o.Operand)
}

// Columns returns the distinct column names referenced by e, in first-seen
// order.
func Columns(e Expression) []string {
	if e == nil {
		return nil
	}
	c := &columnCollector{seen: map[string]bool{}}
	Visit[struct{}](e, c)
	return c.names
}

type columnCollector struct {
	seen  map[string]bool
	names []string
}

func (c *columnCollector) VisitLiteral(*Literal) struct{} { return struct{}{} }

func (c *columnCollector) VisitColumnRef(ref *ColumnRef) struct{} {
	if !c.seen[ref.Name] {
		c.seen[ref.Name] = true
		c.names = append(c.names, ref.Name)
	}
	return struct{}{}
}

func (c *columnCollector) VisitBinary(b *BinaryExpression) struct{} {
	Visit[struct{}](b.Left, c)
	Visit[struct{}](b.Right, c)
	return struct{}{}
}

func (c *columnCollector) VisitUnary(u *UnaryExpression) struct{} {
	Visit[struct{}](u.Operand, c)
	return struct{}{}
}

// Depth returns the height of the tree rooted at e; a leaf has depth 1.
func Depth(e Expression) int {
	if e == nil {
		return 0
	}
	return Visit[int](e, depthVisitor{})
}

type depthVisitor struct{}

func (depthVisitor) VisitLiteral(*Literal) int     { return 1 }
func (depthVisitor) VisitColumnRef(*ColumnRef) int { return 1 }

func (d depthVisitor) VisitBinary(b *BinaryExpression) int {
	return 1 + max(Depth(b.Left), Depth(b.Right))
}

func (d depthVisitor) VisitUnary(u *UnaryExpression) int {
	return 1 + Depth(u.Operand)
}
