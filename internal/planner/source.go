package planner

import (
	"context"

	"github.com/roach88/qcore/internal/operator"
	"github.com/roach88/qcore/internal/store"
)

// StoreSource adapts a *store.Store to operator.RowSource and Schema.
type StoreSource struct {
	Store *store.Store
}

// Scan implements operator.RowSource.
func (s StoreSource) Scan(ctx context.Context, table string) (operator.RowCursor, error) {
	cur, err := s.Store.Scan(ctx, table)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

// ColumnNames implements Schema.
func (s StoreSource) ColumnNames(ctx context.Context, table string) ([]string, error) {
	cols, err := s.Store.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}
