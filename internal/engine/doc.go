// Package engine runs SQL text end to end.
//
// A query moves through four stages:
//
//  1. parse: the text becomes an ast.SelectStatement
//  2. optimize: the WHERE condition is folded and simplified
//  3. plan: the rewritten statement becomes an operator tree
//  4. execute: the tree is opened, drained and closed
//
// Each query is stamped with an ID from an IDGenerator and a seq from the
// engine's logical Clock. A failure at any stage comes back as a
// *QueryError whose Code names the stage.
//
// The engine holds no per-query state between calls, so one Engine may
// serve concurrent queries as long as its RowSource allows it.
package engine
