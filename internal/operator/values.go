package operator

import (
	"context"
	"fmt"
)

// Values yields a fixed list of rows. It is the in-memory leaf used for
// literal inputs and tests.
type Values struct {
	lifecycle
	rows []Row
	pos  int
}

// NewValues creates a leaf over rows. The slice is not copied; rows are
// cloned as they are returned.
func NewValues(rows []Row) *Values {
	return &Values{lifecycle: lifecycle{kind: KindValues}, rows: rows}
}

// Open implements Operator.
func (v *Values) Open(ctx context.Context) error {
	return v.beginOpen()
}

// Next implements Operator.
func (v *Values) Next(ctx context.Context) (Row, bool, error) {
	if err := v.checkNext(); err != nil {
		return nil, false, err
	}
	if v.pos >= len(v.rows) {
		return nil, false, nil
	}
	row := v.rows[v.pos].Clone()
	v.pos++
	return row, true, nil
}

// Close implements Operator. Close is idempotent.
func (v *Values) Close() error {
	v.beginClose()
	return nil
}

// Describe implements Operator.
func (v *Values) Describe() string {
	return fmt.Sprintf("Values (%d rows)", len(v.rows))
}

// Empty yields no rows and touches nothing. The planner uses it for a
// condition that is always FALSE so the table is never scanned.
type Empty struct {
	lifecycle
	reason string
}

// NewEmpty creates an Empty operator. reason appears in explain output.
func NewEmpty(reason string) *Empty {
	return &Empty{lifecycle: lifecycle{kind: KindEmpty}, reason: reason}
}

// Open implements Operator.
func (e *Empty) Open(ctx context.Context) error {
	return e.beginOpen()
}

// Next implements Operator.
func (e *Empty) Next(ctx context.Context) (Row, bool, error) {
	if err := e.checkNext(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Close implements Operator. Close is idempotent.
func (e *Empty) Close() error {
	e.beginClose()
	return nil
}

// Describe implements Operator.
func (e *Empty) Describe() string {
	if e.reason == "" {
		return "Empty"
	}
	return "Empty (" + e.reason + ")"
}
