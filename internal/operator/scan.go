package operator

import (
	"context"
	"fmt"
)

// TableScan reads every row of a table from a RowSource.
//
// The cursor is acquired in Open and released in Close. After the cursor
// reports the end, Next keeps returning ok=false without touching it.
type TableScan struct {
	lifecycle
	source RowSource
	table  string
	cursor RowCursor
	done   bool
}

// NewTableScan creates a scan of table over source.
func NewTableScan(source RowSource, table string) *TableScan {
	return &TableScan{
		lifecycle: lifecycle{kind: KindTableScan},
		source:    source,
		table:     table,
	}
}

// Open implements Operator.
func (s *TableScan) Open(ctx context.Context) error {
	if err := s.beginOpen(); err != nil {
		return err
	}
	if s.source == nil {
		s.openFailed()
		return newFailure(PhaseOpen, s.kind, CodeInvalidPlan, fmt.Errorf("no row source for table %q", s.table))
	}

	cursor, err := s.source.Scan(ctx, s.table)
	if err != nil {
		s.openFailed()
		return newFailure(PhaseOpen, s.kind, CodeIO, fmt.Errorf("scan %s: %w", s.table, err))
	}
	s.cursor = cursor
	return nil
}

// Next implements Operator.
func (s *TableScan) Next(ctx context.Context) (Row, bool, error) {
	if err := s.checkNext(); err != nil {
		return nil, false, err
	}
	if s.done {
		return nil, false, nil
	}

	row, ok, err := s.cursor.Next()
	if err != nil {
		return nil, false, newFailure(PhaseNext, s.kind, CodeIO, fmt.Errorf("read %s: %w", s.table, err))
	}
	if !ok {
		s.done = true
		return nil, false, nil
	}
	return row, true, nil
}

// Close implements Operator. Close is idempotent; the cursor is released
// at most once.
func (s *TableScan) Close() error {
	if !s.beginClose() {
		return nil
	}
	if s.cursor == nil {
		return nil
	}
	cursor := s.cursor
	s.cursor = nil
	if err := cursor.Close(); err != nil {
		return newFailure(PhaseClose, s.kind, CodeIO, fmt.Errorf("close %s: %w", s.table, err))
	}
	return nil
}

// Describe implements Operator.
func (s *TableScan) Describe() string {
	return "TableScan " + s.table
}

// Table returns the scanned table name.
func (s *TableScan) Table() string {
	return s.table
}
