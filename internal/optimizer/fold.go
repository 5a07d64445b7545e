package optimizer

import "github.com/roach88/qcore/internal/ast"

// FoldConstants replaces AND/OR nodes whose operands are both boolean
// literals with the BOOLEAN literal they evaluate to.
//
// Children are folded first, so nested literal-only logic collapses from
// the leaves up. Arithmetic and comparison operators are not evaluated:
// "age > 10 + 5" comes back unchanged.
func FoldConstants(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return ast.Visit[ast.Expression](e, folder{})
}

type folder struct{}

func (folder) VisitLiteral(l *ast.Literal) ast.Expression       { return l }
func (folder) VisitColumnRef(c *ast.ColumnRef) ast.Expression   { return c }
func (folder) VisitUnary(u *ast.UnaryExpression) ast.Expression { return u }

func (f folder) VisitBinary(b *ast.BinaryExpression) ast.Expression {
	left := FoldConstants(b.Left)
	right := FoldConstants(b.Right)

	if b.Operator.IsLogical() {
		lv, lok := boolValue(left)
		rv, rok := boolValue(right)
		if lok && rok {
			if b.Operator == ast.OpAnd {
				return ast.BoolLiteral(lv && rv)
			}
			return ast.BoolLiteral(lv || rv)
		}
	}

	return rebuild(b, left, right)
}
