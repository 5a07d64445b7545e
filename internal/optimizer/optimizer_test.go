package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcore/internal/ast"
)

func ageOver(n int64) ast.Expression {
	return ast.Binary(ast.OpGt, ast.Column("age"), ast.IntLiteral(n))
}

func selectWhere(cond ast.Expression) *ast.SelectStatement {
	return &ast.SelectStatement{
		TableName: "users",
		SelectAll: true,
		Where:     ast.Some(cond),
		OrderBy:   []ast.OrderByElement{{Column: "age"}},
		Limit:     ast.Some[int64](5),
	}
}

func TestOptimize_Conditions(t *testing.T) {
	tests := []struct {
		name    string
		cond    ast.Expression
		want    ast.Expression // nil means the condition is removed
		removed bool
	}{
		{
			name: "TRUE AND atom keeps the atom",
			cond: ast.And(ast.BoolLiteral(true), ageOver(18)),
			want: ageOver(18),
		},
		{
			name: "FALSE OR atom keeps the atom",
			cond: ast.Or(ast.BoolLiteral(false), ageOver(18)),
			want: ageOver(18),
		},
		{
			name:    "TRUE is removed",
			cond:    ast.BoolLiteral(true),
			removed: true,
		},
		{
			name: "FALSE is kept",
			cond: ast.BoolLiteral(false),
			want: ast.BoolLiteral(false),
		},
		{
			name: "arithmetic is not folded",
			cond: ast.Binary(ast.OpGt, ast.Column("age"), ast.Binary(ast.OpAdd, ast.IntLiteral(10), ast.IntLiteral(5))),
			want: ast.Binary(ast.OpGt, ast.Column("age"), ast.Binary(ast.OpAdd, ast.IntLiteral(10), ast.IntLiteral(5))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Optimize(selectWhere(tt.cond))
			require.NotNil(t, out)

			got, ok := out.Where.Get()
			if tt.removed {
				assert.False(t, ok, "condition should be absent, got %v", got)
				return
			}
			require.True(t, ok)
			assert.True(t, ast.Equal(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestOptimize_RuleTable(t *testing.T) {
	x := ageOver(18)
	tr, fa := ast.BoolLiteral(true), ast.BoolLiteral(false)

	tests := []struct {
		name string
		cond ast.Expression
		want ast.Expression
	}{
		{"x AND TRUE", ast.And(x, tr), x},
		{"FALSE AND x", ast.And(fa, x), fa},
		{"x AND FALSE", ast.And(x, fa), fa},
		{"TRUE OR x", ast.Or(tr, x), tr},
		{"x OR TRUE", ast.Or(x, tr), tr},
		{"x OR FALSE", ast.Or(x, fa), x},
		{"nested", ast.Or(ast.And(tr, x), ast.And(fa, ast.Column("y"))), x},
		{"both literals fold", ast.And(tr, fa), fa},
		{"deep literal logic", ast.Or(ast.And(tr, tr), ast.And(fa, tr)), tr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(FoldConstants(tt.cond))
			assert.True(t, ast.Equal(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestFoldConstants_ProducesBooleanLiteral(t *testing.T) {
	got := FoldConstants(ast.Or(ast.BoolLiteral(false), ast.BoolLiteral(true)))

	lit, ok := got.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.TypeBoolean, lit.DeclaredType)
	v, isBool := lit.Bool()
	assert.True(t, isBool)
	assert.True(t, v)
}

func TestFoldConstants_OnlyAndOr(t *testing.T) {
	// Comparisons over boolean literals are left for the executor.
	cond := ast.Binary(ast.OpEq, ast.BoolLiteral(true), ast.BoolLiteral(false))
	assert.Same(t, cond, FoldConstants(cond))

	// Non-boolean literals never fold.
	cond = ast.And(ast.IntLiteral(1), ast.BoolLiteral(true))
	assert.Same(t, cond, FoldConstants(cond))
}

func TestFoldConstants_RecursesUnderAnyOperator(t *testing.T) {
	cond := ast.Binary(ast.OpEq, ast.Column("flag"), ast.And(ast.BoolLiteral(true), ast.BoolLiteral(true)))

	got := FoldConstants(cond)
	want := ast.Binary(ast.OpEq, ast.Column("flag"), ast.BoolLiteral(true))
	assert.True(t, ast.Equal(want, got), "got %s", got)
}

func TestSimplify_NonBooleanLiteralDoesNotTrigger(t *testing.T) {
	cond := ast.And(ast.IntLiteral(1), ageOver(18))
	assert.Same(t, cond, Simplify(cond))

	cond = ast.Or(ast.StringLiteral("false"), ageOver(18))
	assert.Same(t, cond, Simplify(cond))
}

func TestOptimize_UnaryIsOpaque(t *testing.T) {
	cond := ast.Not(ast.And(ast.BoolLiteral(true), ageOver(18)))

	out := Optimize(selectWhere(cond))
	got, ok := out.Where.Get()
	require.True(t, ok)
	assert.Same(t, cond, got)
}

func TestOptimize_FixedPointOnAtoms(t *testing.T) {
	cond := ast.Or(
		ast.And(ageOver(18), ast.Binary(ast.OpEq, ast.Column("name"), ast.StringLiteral("bob"))),
		ast.Binary(ast.OpLt, ast.Column("score"), ast.IntLiteral(3)),
	)

	assert.Same(t, cond, FoldConstants(cond))
	assert.Same(t, cond, Simplify(cond))

	out := Optimize(selectWhere(cond))
	got, _ := out.Where.Get()
	assert.Same(t, cond, got)
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	inner := ast.And(ast.BoolLiteral(true), ageOver(18))
	cond := ast.Or(inner, ast.Column("vip"))
	stmt := selectWhere(cond)
	before := stmt.String()

	out := Optimize(stmt)

	// The input tree is intact and still usable.
	assert.Equal(t, before, stmt.String())
	assert.Same(t, cond, stmt.Condition())
	assert.Same(t, ast.Expression(inner), cond.Left)
	assert.Equal(t, ast.OpAnd, inner.Operator)

	// The output is a separate statement with its own slices.
	require.NotSame(t, stmt, out)
	out.OrderBy[0].Descending = true
	assert.False(t, stmt.OrderBy[0].Descending)
	assert.Equal(t, "age > 18 OR vip", out.Condition().String())
}

func TestOptimize_SharesUnchangedSubtrees(t *testing.T) {
	atom := ast.Binary(ast.OpEq, ast.Column("name"), ast.StringLiteral("bob"))
	cond := ast.Or(ast.And(ast.BoolLiteral(true), ageOver(18)), atom)

	out := Optimize(selectWhere(cond))
	got, ok := out.Where.Get()
	require.True(t, ok)

	or, isBinary := got.(*ast.BinaryExpression)
	require.True(t, isBinary)
	assert.NotSame(t, cond, or, "changed node must be rebuilt")
	assert.Same(t, ast.Expression(atom), or.Right, "unchanged subtree must be shared")
}

func TestOptimize_CarriesOtherFields(t *testing.T) {
	stmt := selectWhere(ast.BoolLiteral(true))
	stmt.SelectAll = false
	stmt.SelectElements = []ast.SelectElement{{Column: "name", Alias: "n"}}

	out := Optimize(stmt)

	assert.Equal(t, "users", out.TableName)
	assert.Equal(t, stmt.SelectElements, out.SelectElements)
	assert.Equal(t, stmt.OrderBy, out.OrderBy)
	assert.Equal(t, stmt.Limit, out.Limit)
	assert.False(t, out.Where.IsPresent())
	assert.True(t, stmt.Where.IsPresent(), "input keeps its condition")
}

func TestOptimize_NoCondition(t *testing.T) {
	stmt := &ast.SelectStatement{TableName: "users", SelectAll: true}

	out := Optimize(stmt)
	require.NotNil(t, out)
	assert.NotSame(t, stmt, out)
	assert.True(t, ast.StatementsEqual(stmt, out))

	assert.Nil(t, Optimize(nil))
}

func TestTrace_ReportsEachPass(t *testing.T) {
	cond := ast.And(ast.Or(ast.BoolLiteral(false), ast.BoolLiteral(true)), ageOver(18))

	_, steps := Trace(selectWhere(cond))
	require.Len(t, steps, 2)

	assert.Equal(t, PassConstantFolding, steps[0].Pass)
	assert.Equal(t, "TRUE AND age > 18", steps[0].Condition.String())
	assert.Equal(t, PassSimplification, steps[1].Pass)
	assert.Equal(t, "age > 18", steps[1].Condition.String())
}

func TestIsAlwaysFalse(t *testing.T) {
	assert.True(t, IsAlwaysFalse(Optimize(selectWhere(ast.And(ageOver(1), ast.BoolLiteral(false))))))
	assert.False(t, IsAlwaysFalse(Optimize(selectWhere(ageOver(1)))))
	assert.False(t, IsAlwaysFalse(&ast.SelectStatement{TableName: "t"}))
}

// randomCondition builds a tree of boolean literals, AND/OR and opaque
// atoms.
func randomCondition(r *rand.Rand, depth int) ast.Expression {
	if depth == 0 || r.Intn(4) == 0 {
		switch r.Intn(4) {
		case 0:
			return ast.BoolLiteral(true)
		case 1:
			return ast.BoolLiteral(false)
		case 2:
			return ageOver(int64(r.Intn(50)))
		default:
			return ast.Column("c" + string(rune('a'+r.Intn(5))))
		}
	}
	op := ast.OpAnd
	if r.Intn(2) == 0 {
		op = ast.OpOr
	}
	return ast.Binary(op, randomCondition(r, depth-1), randomCondition(r, depth-1))
}

func TestOptimize_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		stmt := selectWhere(randomCondition(r, 6))

		once := Optimize(stmt)
		twice := Optimize(once)

		require.True(t, ast.StatementsEqual(once, twice),
			"not a fixed point:\n input: %s\n  once: %s\n twice: %s", stmt, once, twice)
		assert.Equal(t, once.Fingerprint(), twice.Fingerprint())
	}
}

func TestOptimize_ResultHasNoReducibleLiterals(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		out := Optimize(selectWhere(randomCondition(r, 5)))
		cond, ok := out.Where.Get()
		if !ok {
			continue
		}
		if _, isLit := cond.(*ast.Literal); isLit {
			assert.True(t, IsAlwaysFalse(out), "only FALSE may survive as a bare literal, got %s", cond)
			continue
		}
		// Any surviving tree must be free of boolean literals.
		assert.NotContains(t, cond.String(), "TRUE", "input %d", i)
		assert.NotContains(t, cond.String(), "FALSE", "input %d", i)
	}
}
