// Package store provides SQLite-backed table storage for qcore.
//
// The store is the row source leaf scans read from. It holds user tables
// plus one metadata table, qcore_columns, recording each column's declared
// type and position.
//
// # Critical Patterns
//
// Deterministic scans
//   - Every scan is compiled by internal/querysql with ORDER BY rowid ASC
//   - Rows come back in insertion order on every run
//
// No pushdown
//   - Scans read whole tables; conditions are evaluated by the operator tree
//
// Typed values
//   - Values are ir.IRValue: NULL, BOOLEAN, INTEGER, TEXT
//   - REAL values are rejected on read; inserts are checked against the
//     declared column type
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Wait for locks (default 5 seconds)
//   - foreign_keys=ON: Enforce referential integrity
package store
