package ast

import (
	"fmt"

	"github.com/roach88/qcore/internal/ir"
)

// Kind tags each Expression variant.
type Kind int

const (
	KindLiteral Kind = iota + 1
	KindColumnRef
	KindBinary
	KindUnary
)

var kindNames = map[Kind]string{
	KindLiteral:   "Literal",
	KindColumnRef: "ColumnRef",
	KindBinary:    "BinaryExpression",
	KindUnary:     "UnaryExpression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Expression is a node of a condition or value tree.
//
// This is a sealed interface - only types in this package implement it.
// Use Visit with a Visitor to dispatch on the concrete variant.
type Expression interface {
	Kind() Kind
	String() string
	expressionNode() // Marker method - seals interface to this package
}

// Declared type hints carried by literals.
const (
	TypeBoolean = "BOOLEAN"
	TypeInteger = "INTEGER"
	TypeString  = "STRING"
	TypeNull    = "NULL"
	TypeUnknown = "UNKNOWN"
)

// Literal is a constant value.
//
// DeclaredType is a hint from the producer ("BOOLEAN", "UNKNOWN", ...). It
// is informational only: rules that look for boolean literals inspect
// Value, never DeclaredType.
type Literal struct {
	Value        ir.IRValue
	DeclaredType string
}

func (*Literal) expressionNode() {}

// Kind returns KindLiteral.
func (*Literal) Kind() Kind { return KindLiteral }

func (l *Literal) String() string { return ir.Format(l.Value) }

// Bool returns the literal's value if it is exactly a boolean.
func (l *Literal) Bool() (value, ok bool) {
	b, ok := l.Value.(ir.IRBool)
	return bool(b), ok
}

// NewLiteral creates a literal whose declared type is derived from v.
func NewLiteral(v ir.IRValue) *Literal {
	return &Literal{Value: v, DeclaredType: ir.TypeName(v)}
}

// BoolLiteral creates a BOOLEAN literal.
func BoolLiteral(b bool) *Literal {
	return &Literal{Value: ir.IRBool(b), DeclaredType: TypeBoolean}
}

// IntLiteral creates an INTEGER literal.
func IntLiteral(n int64) *Literal {
	return &Literal{Value: ir.IRInt(n), DeclaredType: TypeInteger}
}

// StringLiteral creates a STRING literal.
func StringLiteral(s string) *Literal {
	return &Literal{Value: ir.IRString(s), DeclaredType: TypeString}
}

// NullLiteral creates a NULL literal.
func NullLiteral() *Literal {
	return &Literal{Value: ir.IRNull{}, DeclaredType: TypeNull}
}

// ColumnRef refers to a column of the row being evaluated.
type ColumnRef struct {
	Name string
}

func (*ColumnRef) expressionNode() {}

// Kind returns KindColumnRef.
func (*ColumnRef) Kind() Kind { return KindColumnRef }

func (c *ColumnRef) String() string { return c.Name }

// Column creates a ColumnRef.
func Column(name string) *ColumnRef {
	return &ColumnRef{Name: name}
}

// BinaryExpression applies Operator to Left and Right.
type BinaryExpression struct {
	Operator Operator
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) expressionNode() {}

// Kind returns KindBinary.
func (*BinaryExpression) Kind() Kind { return KindBinary }

func (b *BinaryExpression) String() string {
	prec := b.Operator.Precedence()
	left := operandString(b.Left, prec, false)
	right := operandString(b.Right, prec, true)
	return left + " " + string(b.Operator) + " " + right
}

// Binary creates a BinaryExpression.
func Binary(op Operator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// And creates left AND right.
func And(left, right Expression) *BinaryExpression {
	return Binary(OpAnd, left, right)
}

// Or creates left OR right.
func Or(left, right Expression) *BinaryExpression {
	return Binary(OpOr, left, right)
}

// UnaryExpression applies a prefix Operator (NOT or -) to Operand.
type UnaryExpression struct {
	Operator Operator
	Operand  Expression
}

func (*UnaryExpression) expressionNode() {}

// Kind returns KindUnary.
func (*UnaryExpression) Kind() Kind { return KindUnary }

func (u *UnaryExpression) String() string {
	operand := operandString(u.Operand, u.precedence(), false)
	if u.Operator == OpNot {
		return "NOT " + operand
	}
	return string(u.Operator) + operand
}

func (u *UnaryExpression) precedence() int {
	if u.Operator == OpNot {
		return precNot
	}
	return precUnary
}

// Not creates NOT operand.
func Not(operand Expression) *UnaryExpression {
	return &UnaryExpression{Operator: OpNot, Operand: operand}
}

// Negate creates -operand.
func Negate(operand Expression) *UnaryExpression {
	return &UnaryExpression{Operator: OpSub, Operand: operand}
}

// operandString renders a child, parenthesised when its precedence is
// lower than the parent's. Right operands of equal precedence are also
// parenthesised so left-associative trees round-trip through the parser.
func operandString(e Expression, parentPrec int, right bool) string {
	if e == nil {
		return "<nil>"
	}
	var prec int
	switch n := e.(type) {
	case *BinaryExpression:
		prec = n.Operator.Precedence()
	case *UnaryExpression:
		prec = n.precedence()
	default:
		return e.String()
	}
	if prec < parentPrec || (right && prec == parentPrec) {
		return "(" + e.String() + ")"
	}
	return e.String()
}
