// Package queryir describes the storage requests the engine sends to its
// backing database as plain values.
//
// The execution layer never writes SQL text. It builds a Statement, which
// internal/querysql compiles to parameterized SQLite:
//
//	[store] → [queryir.Statement] → [querysql] → SQL + params
//
// # Statements
//
//   - Scan: read every row of a table in insertion order
//   - CreateTable: declare a table and its column types
//   - Insert: add one row
//
// Scan has no filter. Conditions are evaluated by the operator tree above
// the scan, so the rows a query sees never depend on how the backend would
// have interpreted a pushed-down predicate.
//
// # Sealed interfaces
//
// Statement is sealed with a marker method so compilers can switch over
// every variant.
package queryir
