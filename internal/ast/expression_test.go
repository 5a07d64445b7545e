package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/qcore/internal/ir"
)

func TestExpressionSealed(t *testing.T) {
	// Compile-time check via assignment
	var _ Expression = &Literal{}
	var _ Expression = &ColumnRef{}
	var _ Expression = &BinaryExpression{}
	var _ Expression = &UnaryExpression{}
}

func TestExpressionKinds(t *testing.T) {
	assert.Equal(t, KindLiteral, BoolLiteral(true).Kind())
	assert.Equal(t, KindColumnRef, Column("age").Kind())
	assert.Equal(t, KindBinary, And(BoolLiteral(true), Column("x")).Kind())
	assert.Equal(t, KindUnary, Not(Column("x")).Kind())

	assert.Equal(t, "BinaryExpression", KindBinary.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestLiteralConstructors(t *testing.T) {
	assert.Equal(t, &Literal{Value: ir.IRBool(true), DeclaredType: "BOOLEAN"}, BoolLiteral(true))
	assert.Equal(t, &Literal{Value: ir.IRInt(7), DeclaredType: "INTEGER"}, IntLiteral(7))
	assert.Equal(t, &Literal{Value: ir.IRString("a"), DeclaredType: "STRING"}, StringLiteral("a"))
	assert.Equal(t, &Literal{Value: ir.IRNull{}, DeclaredType: "NULL"}, NullLiteral())
	assert.Equal(t, "INTEGER", NewLiteral(ir.IRInt(1)).DeclaredType)
}

func TestLiteralBool(t *testing.T) {
	v, ok := BoolLiteral(false).Bool()
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = IntLiteral(1).Bool()
	assert.False(t, ok)

	// Declared type alone does not make a boolean.
	_, ok = (&Literal{Value: ir.IRString("true"), DeclaredType: TypeBoolean}).Bool()
	assert.False(t, ok)
}

func TestExpressionString(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"literal true", BoolLiteral(true), "TRUE"},
		{"string literal", StringLiteral("bob"), "'bob'"},
		{"comparison", Binary(OpGt, Column("age"), IntLiteral(18)), "age > 18"},
		{
			"and of comparisons",
			And(Binary(OpGt, Column("age"), IntLiteral(18)), Binary(OpEq, Column("name"), StringLiteral("x"))),
			"age > 18 AND name = 'x'",
		},
		{
			"or inside and is parenthesised",
			And(Column("a"), Or(Column("b"), Column("c"))),
			"a AND (b OR c)",
		},
		{
			"and inside or is not",
			Or(And(Column("a"), Column("b")), Column("c")),
			"a AND b OR c",
		},
		{
			"arithmetic inside comparison",
			Binary(OpGt, Column("age"), Binary(OpAdd, IntLiteral(10), IntLiteral(5))),
			"age > 10 + 5",
		},
		{
			"right-nested subtraction",
			Binary(OpSub, Column("a"), Binary(OpSub, Column("b"), Column("c"))),
			"a - (b - c)",
		},
		{"not", Not(Binary(OpEq, Column("a"), IntLiteral(1))), "NOT a = 1"},
		{"negate sum", Negate(Binary(OpAdd, Column("a"), Column("b"))), "-(a + b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestParseOperator(t *testing.T) {
	for src, want := range map[string]Operator{
		"=": OpEq, "==": OpEq, "<>": OpNotEq, "!=": OpNotEq,
		"and": OpAnd, "Or": OpOr, ">=": OpGtEq, "%": OpMod,
	} {
		got, ok := ParseOperator(src)
		assert.True(t, ok, src)
		assert.Equal(t, want, got, src)
	}

	_, ok := ParseOperator("LIKE")
	assert.False(t, ok)
}

func TestOperatorClasses(t *testing.T) {
	assert.True(t, OpAnd.IsLogical())
	assert.False(t, OpEq.IsLogical())
	assert.True(t, OpLtEq.IsComparison())
	assert.True(t, OpMod.IsArithmetic())
	assert.Less(t, OpOr.Precedence(), OpAnd.Precedence())
	assert.Less(t, OpEq.Precedence(), OpAdd.Precedence())
	assert.Less(t, OpAdd.Precedence(), OpMul.Precedence())
}
