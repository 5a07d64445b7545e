package queryir

import (
	"strings"

	"github.com/roach88/qcore/internal/ir"
)

// Statement is a storage request.
//
// This is a sealed interface - only types in this package implement it.
type Statement interface {
	statementNode() // Marker method - seals interface to this package
}

// Column types a table may declare. Values are checked against them on
// insert; BOOLEAN is stored as an integer and restored on read.
const (
	TypeInteger = "INTEGER"
	TypeText    = "TEXT"
	TypeBoolean = "BOOLEAN"
)

// ColumnDef declares one column.
type ColumnDef struct {
	Name string
	Type string
}

// NormalizeType upper-cases a declared type and maps common aliases onto
// the supported set. The second result is false for unsupported types.
func NormalizeType(t string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "INTEGER", "INT", "BIGINT":
		return TypeInteger, true
	case "TEXT", "STRING", "VARCHAR":
		return TypeText, true
	case "BOOLEAN", "BOOL":
		return TypeBoolean, true
	default:
		return "", false
	}
}

// Scan reads the named columns of every row in Table, in insertion order.
type Scan struct {
	Table   string
	Columns []string
}

func (Scan) statementNode() {}

// CreateTable declares a table.
type CreateTable struct {
	Table   string
	Columns []ColumnDef
}

func (CreateTable) statementNode() {}

// Insert adds one row. Columns and Values are parallel.
type Insert struct {
	Table   string
	Columns []string
	Values  []ir.IRValue
}

func (Insert) statementNode() {}

// NewInsert builds an Insert from a record, with columns in canonical key
// order.
func NewInsert(table string, row ir.Record) Insert {
	cols := row.SortedKeys()
	vals := make([]ir.IRValue, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}
	return Insert{Table: table, Columns: cols, Values: vals}
}
