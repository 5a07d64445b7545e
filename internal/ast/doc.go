// Package ast defines the statement and expression trees produced by the
// parser, rewritten by the optimizer and consumed by the planner.
//
// SEALED INTERFACES:
//
// Expression is a sealed interface using the marker method pattern. Only
// types in this package implement it:
//
//	Literal           constant value with a declared type hint
//	ColumnRef         reference to a column of the current row
//	BinaryExpression  comparison, logical (AND/OR) or arithmetic operator
//	UnaryExpression   NOT or arithmetic negation
//
// Backends never type-switch on expressions themselves. They implement
// Visitor[T], which has one method per variant, and call Visit. Adding a
// variant means adding a Visitor method, so every backend that forgets to
// handle it stops compiling.
//
// IMMUTABILITY:
//
// Nodes are never mutated after construction. Rewrites build new nodes
// bottom-up and share unchanged subtrees by pointer, so a statement and
// its rewritten copy can both be used safely.
//
// ABSENCE:
//
// Optional fields (the WHERE condition, LIMIT) use Optional[T] rather than
// nil, so "no filter" is an explicit state and never a nil pointer.
package ast
