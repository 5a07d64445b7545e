package optimizer

import "github.com/roach88/qcore/internal/ast"

// Simplify applies the boolean identities to AND/OR nodes, children first:
//
//	TRUE AND x  -> x        x AND TRUE  -> x
//	FALSE AND x -> FALSE    x AND FALSE -> FALSE
//	TRUE OR x   -> TRUE     x OR TRUE   -> TRUE
//	FALSE OR x  -> x        x OR FALSE  -> x
//
// Only literals holding a boolean value trigger a rule. When no rule fires
// the node is kept, rebuilt only if a child changed.
func Simplify(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return ast.Visit[ast.Expression](e, simplifier{})
}

type simplifier struct{}

func (simplifier) VisitLiteral(l *ast.Literal) ast.Expression       { return l }
func (simplifier) VisitColumnRef(c *ast.ColumnRef) ast.Expression   { return c }
func (simplifier) VisitUnary(u *ast.UnaryExpression) ast.Expression { return u }

func (s simplifier) VisitBinary(b *ast.BinaryExpression) ast.Expression {
	left := Simplify(b.Left)
	right := Simplify(b.Right)

	switch b.Operator {
	case ast.OpAnd:
		switch {
		case isTrue(left):
			return right
		case isTrue(right):
			return left
		case isFalse(left):
			return left
		case isFalse(right):
			return right
		}
	case ast.OpOr:
		switch {
		case isTrue(left):
			return left
		case isTrue(right):
			return right
		case isFalse(left):
			return right
		case isFalse(right):
			return left
		}
	}

	return rebuild(b, left, right)
}
