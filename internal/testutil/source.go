package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/qcore/internal/operator"
)

// Event is one recorded resource action. Seq numbers events from 1 in the
// order the source saw them, across all cursors.
type Event struct {
	Seq    int64
	Action string // "scan", "close"
	Table  string
}

// RecordingSource is an in-memory operator.RowSource that records every
// cursor it hands out and every release, with optional failure injection.
type RecordingSource struct {
	Tables map[string][]operator.Row

	// ScanErr fails every Scan.
	ScanErr error
	// NextErr is returned by a cursor after FailAfter rows.
	NextErr   error
	FailAfter int
	// CloseErr is returned by every cursor Close.
	CloseErr error

	mu      sync.Mutex
	seq     int64
	events  []Event
	cursors []*RecordingCursor
}

// NewRecordingSource creates a source over tables.
func NewRecordingSource(tables map[string][]operator.Row) *RecordingSource {
	return &RecordingSource{Tables: tables}
}

// Scan implements operator.RowSource.
func (s *RecordingSource) Scan(ctx context.Context, table string) (operator.RowCursor, error) {
	if s.ScanErr != nil {
		return nil, s.ScanErr
	}
	rows, ok := s.Tables[table]
	if !ok {
		return nil, fmt.Errorf("no such table: %s", table)
	}

	c := &RecordingCursor{source: s, table: table, rows: rows}
	s.mu.Lock()
	s.cursors = append(s.cursors, c)
	s.mu.Unlock()
	s.record("scan", table)
	return c, nil
}

func (s *RecordingSource) record(action, table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.events = append(s.events, Event{Seq: s.seq, Action: action, Table: table})
}

// Events returns the recorded events in order.
func (s *RecordingSource) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Cursors returns every cursor handed out so far.
func (s *RecordingSource) Cursors() []*RecordingCursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*RecordingCursor(nil), s.cursors...)
}

// Scans returns how many cursors were acquired.
func (s *RecordingSource) Scans() int {
	return len(s.Cursors())
}

// OpenCursors returns how many cursors have not been closed.
func (s *RecordingSource) OpenCursors() int {
	n := 0
	for _, c := range s.Cursors() {
		if c.Closes() == 0 {
			n++
		}
	}
	return n
}

// RecordingCursor is a cursor handed out by RecordingSource.
type RecordingCursor struct {
	source *RecordingSource
	table  string
	rows   []operator.Row
	pos    int

	mu     sync.Mutex
	closes int
	reads  int
}

// Next implements operator.RowCursor.
func (c *RecordingCursor) Next() (operator.Row, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closes > 0 {
		return nil, false, fmt.Errorf("cursor on %s used after close", c.table)
	}
	if c.source.NextErr != nil && c.reads >= c.source.FailAfter {
		return nil, false, c.source.NextErr
	}
	if c.pos >= len(c.rows) {
		return nil, false, nil
	}
	row := c.rows[c.pos].Clone()
	c.pos++
	c.reads++
	return row, true, nil
}

// Close implements operator.RowCursor. Every call is counted so tests can
// detect a double release.
func (c *RecordingCursor) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	c.source.record("close", c.table)
	return c.source.CloseErr
}

// Closes returns how many times Close was called.
func (c *RecordingCursor) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Reads returns how many rows were returned.
func (c *RecordingCursor) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
