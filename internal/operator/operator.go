package operator

import (
	"context"
	"fmt"

	"github.com/roach88/qcore/internal/ir"
)

// Row maps column names to values. Rows handed out by Next belong to the
// caller; operators never modify a row after returning it.
type Row = ir.Record

// Operator is one stage of a query plan.
type Operator interface {
	// Open acquires resources and opens children. Called exactly once.
	Open(ctx context.Context) error

	// Next returns the next row. ok is false once no rows remain.
	Next(ctx context.Context) (row Row, ok bool, err error)

	// Close releases resources and closes children. Idempotent.
	Close() error

	// Kind returns the operator's tag.
	Kind() Kind

	// Describe returns a one-line label for explain output.
	Describe() string
}

// Parent is implemented by operators that have children.
type Parent interface {
	Children() []Operator
}

// Kind tags each operator variant. It is fixed at construction.
type Kind int

const (
	KindValues Kind = iota + 1
	KindTableScan
	KindFilter
	KindProject
	KindSort
	KindLimit
	KindEmpty
)

var kindNames = [...]string{
	KindValues:    "Values",
	KindTableScan: "TableScan",
	KindFilter:    "Filter",
	KindProject:   "Project",
	KindSort:      "Sort",
	KindLimit:     "Limit",
	KindEmpty:     "Empty",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RowSource is the storage collaborator leaf scans read from.
type RowSource interface {
	Scan(ctx context.Context, table string) (RowCursor, error)
}

// RowCursor yields the rows of one scan.
type RowCursor interface {
	Next() (row Row, ok bool, err error)
	Close() error
}
