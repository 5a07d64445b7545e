package optimizer

import "github.com/roach88/qcore/internal/ast"

// Pass is one rewrite of a condition tree.
type Pass struct {
	Name  string
	Apply func(ast.Expression) ast.Expression
}

// Pass names, in application order.
const (
	PassConstantFolding = "constant-folding"
	PassSimplification  = "simplification"
)

// Passes returns the rewrite passes in the order Optimize applies them.
func Passes() []Pass {
	return []Pass{
		{Name: PassConstantFolding, Apply: FoldConstants},
		{Name: PassSimplification, Apply: Simplify},
	}
}

// Step records the condition produced by one pass.
type Step struct {
	Pass      string
	Condition ast.Expression
}

// Optimize rewrites stmt's WHERE condition and returns a new statement.
//
// Optimize never fails and never modifies stmt. Non-condition fields are
// carried over unchanged; a statement without a condition comes back as a
// copy.
func Optimize(stmt *ast.SelectStatement) *ast.SelectStatement {
	out, _ := Trace(stmt)
	return out
}

// Trace is Optimize that also reports the condition after each pass.
func Trace(stmt *ast.SelectStatement) (*ast.SelectStatement, []Step) {
	if stmt == nil {
		return nil, nil
	}

	out := stmt.Clone()
	cond, ok := stmt.Where.Get()
	if !ok || cond == nil {
		out.Where = ast.None[ast.Expression]()
		return out, nil
	}

	steps := make([]Step, 0, 2)
	for _, pass := range Passes() {
		cond = pass.Apply(cond)
		steps = append(steps, Step{Pass: pass.Name, Condition: cond})
	}

	if isTrue(cond) {
		// WHERE TRUE filters nothing.
		out.Where = ast.None[ast.Expression]()
		return out, steps
	}

	out.Where = ast.Some(cond)
	return out, steps
}

// IsAlwaysFalse reports whether stmt's condition is the literal FALSE,
// meaning no row can qualify.
func IsAlwaysFalse(stmt *ast.SelectStatement) bool {
	cond, ok := stmt.Where.Get()
	return ok && isFalse(cond)
}

// isTrue reports whether e is a Literal holding exactly boolean true.
func isTrue(e ast.Expression) bool {
	v, ok := boolValue(e)
	return ok && v
}

// isFalse reports whether e is a Literal holding exactly boolean false.
func isFalse(e ast.Expression) bool {
	v, ok := boolValue(e)
	return ok && !v
}

func boolValue(e ast.Expression) (value, ok bool) {
	lit, isLit := e.(*ast.Literal)
	if !isLit || lit == nil {
		return false, false
	}
	return lit.Bool()
}

// rebuild returns b itself when neither child changed, otherwise a new
// node over the rewritten children. The original node is never modified.
func rebuild(b *ast.BinaryExpression, left, right ast.Expression) ast.Expression {
	if left == b.Left && right == b.Right {
		return b
	}
	return ast.Binary(b.Operator, left, right)
}
