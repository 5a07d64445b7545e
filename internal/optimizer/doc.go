// Package optimizer implements the rule-based logical rewrite of a SELECT
// statement's WHERE condition.
//
// Two passes run in a fixed order, each a post-order walk of the
// condition tree:
//
//  1. Constant folding: AND/OR over two boolean literals becomes a single
//     BOOLEAN literal. Nothing else is folded - arithmetic and comparisons
//     over literals are left for the executor.
//  2. Simplification: boolean identities (TRUE AND x -> x, FALSE OR x -> x,
//     FALSE AND x -> FALSE, TRUE OR x -> TRUE) collapse AND/OR nodes.
//
// After both passes a condition that reduced to TRUE is dropped; one that
// reduced to FALSE is kept so the planner can skip the scan entirely.
//
// Rewrites are persistent: nodes that change are rebuilt, untouched
// subtrees are shared by pointer, and the input statement is never
// modified. Optimize is idempotent over trees of boolean literals, AND/OR
// and opaque atoms.
//
// Only Literal and BinaryExpression nodes are rewritten. ColumnRef and
// UnaryExpression are opaque and returned as they are, children included.
package optimizer
