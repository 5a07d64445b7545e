package operator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qcore/internal/ir"
)

// SortKey is one ordering column.
type SortKey struct {
	Column     string
	Descending bool
}

// Sort materialises its child in Open and yields the rows in key order.
// The sort is stable: rows with equal keys keep their input order.
type Sort struct {
	lifecycle
	children
	keys    []SortKey
	maxRows int
	rows    []Row
	pos     int
}

// NewSort creates a sort over child. maxRows bounds how many rows may be
// buffered; zero means no bound.
func NewSort(child Operator, keys []SortKey, maxRows int) *Sort {
	return &Sort{
		lifecycle: lifecycle{kind: KindSort},
		children:  children{ops: []Operator{child}},
		keys:      keys,
		maxRows:   maxRows,
	}
}

// Open implements Operator. The whole input is read here, so child
// failures during materialisation surface from Open.
func (s *Sort) Open(ctx context.Context) error {
	if err := s.beginOpen(); err != nil {
		return err
	}
	if err := s.children.open(ctx); err != nil {
		s.openFailed()
		return err
	}
	if err := s.materialise(ctx); err != nil {
		s.rows = nil
		s.openFailed()
		return err
	}
	return nil
}

func (s *Sort) materialise(ctx context.Context) error {
	child := s.ops[0]
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, ok, err := child.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if s.maxRows > 0 && len(s.rows) >= s.maxRows {
			return newFailure(PhaseOpen, s.kind, CodeResource, fmt.Errorf("more than %d rows to sort", s.maxRows))
		}
		s.rows = append(s.rows, row)
	}

	slices.SortStableFunc(s.rows, s.compare)
	return nil
}

func (s *Sort) compare(a, b Row) int {
	for _, k := range s.keys {
		c := ir.Compare(a[k.Column], b[k.Column])
		if k.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Next implements Operator.
func (s *Sort) Next(ctx context.Context) (Row, bool, error) {
	if err := s.checkNext(); err != nil {
		return nil, false, err
	}
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.pos]
	s.rows[s.pos] = nil
	s.pos++
	return row, true, nil
}

// Close implements Operator. Close is idempotent.
func (s *Sort) Close() error {
	if !s.beginClose() {
		return nil
	}
	s.rows = nil
	return s.children.close()
}

// Describe implements Operator.
func (s *Sort) Describe() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		parts[i] = k.Column + " " + dir
	}
	return "Sort " + strings.Join(parts, ", ")
}
