package ast

import "strings"

// Operator names a binary or unary operator.
type Operator string

// Comparison operators.
const (
	OpEq    Operator = "="
	OpNotEq Operator = "!="
	OpLt    Operator = "<"
	OpLtEq  Operator = "<="
	OpGt    Operator = ">"
	OpGtEq  Operator = ">="
)

// Logical operators.
const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
	OpNot Operator = "NOT"
)

// Arithmetic operators. OpSub doubles as unary negation.
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpMod Operator = "%"
)

// Binding strength, loosest first.
const (
	precOr = iota + 1
	precAnd
	precNot
	precComparison
	precAdditive
	precMultiplicative
	precUnary
)

// ParseOperator maps source text to an Operator. Keywords are matched
// case-insensitively and "<>" is accepted as "!=".
func ParseOperator(s string) (Operator, bool) {
	switch strings.ToUpper(s) {
	case "=", "==":
		return OpEq, true
	case "!=", "<>":
		return OpNotEq, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLtEq, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGtEq, true
	case "AND":
		return OpAnd, true
	case "OR":
		return OpOr, true
	case "NOT":
		return OpNot, true
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	default:
		return "", false
	}
}

// IsLogical reports whether o is AND or OR.
func (o Operator) IsLogical() bool {
	return o == OpAnd || o == OpOr
}

// IsComparison reports whether o compares two values.
func (o Operator) IsComparison() bool {
	switch o {
	case OpEq, OpNotEq, OpLt, OpLtEq, OpGt, OpGtEq:
		return true
	}
	return false
}

// IsArithmetic reports whether o is an arithmetic operator.
func (o Operator) IsArithmetic() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	}
	return false
}

// Precedence returns the binding strength of o in binary position.
// NOT reports its prefix strength; "-" reports the additive strength.
func (o Operator) Precedence() int {
	switch {
	case o == OpOr:
		return precOr
	case o == OpAnd:
		return precAnd
	case o == OpNot:
		return precNot
	case o.IsComparison():
		return precComparison
	case o == OpAdd || o == OpSub:
		return precAdditive
	case o == OpMul || o == OpDiv || o == OpMod:
		return precMultiplicative
	default:
		return precUnary
	}
}
