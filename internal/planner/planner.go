// Package planner turns a rewritten SELECT statement into an operator tree.
//
// The plan shape is fixed:
//
//	Project
//	  Limit
//	    Sort
//	      Filter
//	        TableScan
//
// Stages the statement does not need are left out. A condition that is the
// literal FALSE plans to Empty, so the table is never scanned.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/qcore/internal/ast"
	"github.com/roach88/qcore/internal/operator"
	"github.com/roach88/qcore/internal/optimizer"
)

var (
	// ErrUnknownColumn is returned for a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidStatement is returned for a statement no plan can run.
	ErrInvalidStatement = errors.New("invalid statement")
)

// Schema is implemented by row sources that can list a table's columns.
// When the source implements it, Build checks every column reference.
type Schema interface {
	ColumnNames(ctx context.Context, table string) ([]string, error)
}

// Options tunes the plan.
type Options struct {
	// MaxSortRows bounds Sort's buffer. Zero means no bound.
	MaxSortRows int
}

// Build plans stmt over source. The statement should already be
// optimized; Build does not rewrite conditions. Nothing is opened.
func Build(ctx context.Context, stmt *ast.SelectStatement, source operator.RowSource, opts Options) (operator.Operator, error) {
	if stmt == nil {
		return nil, fmt.Errorf("%w: nil statement", ErrInvalidStatement)
	}
	if stmt.TableName == "" {
		return nil, fmt.Errorf("%w: no table", ErrInvalidStatement)
	}
	if limit, ok := stmt.Limit.Get(); ok && limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidStatement, limit)
	}

	if schema, ok := source.(Schema); ok {
		if err := checkColumns(ctx, stmt, schema); err != nil {
			return nil, err
		}
	}

	var root operator.Operator
	if optimizer.IsAlwaysFalse(stmt) {
		root = operator.NewEmpty("WHERE FALSE")
	} else {
		root = operator.NewTableScan(source, stmt.TableName)
		if cond := stmt.Condition(); cond != nil {
			root = operator.NewFilter(root, cond)
		}
		if len(stmt.OrderBy) > 0 {
			keys := make([]operator.SortKey, len(stmt.OrderBy))
			for i, o := range stmt.OrderBy {
				keys[i] = operator.SortKey{Column: o.Column, Descending: o.Descending}
			}
			root = operator.NewSort(root, keys, opts.MaxSortRows)
		}
		if limit, ok := stmt.Limit.Get(); ok {
			root = operator.NewLimit(root, limit)
		}
	}

	if !stmt.SelectAll && len(stmt.SelectElements) > 0 {
		cols := make([]operator.Column, len(stmt.SelectElements))
		for i, el := range stmt.SelectElements {
			cols[i] = operator.Column{Source: el.Column, Name: el.OutputName()}
		}
		root = operator.NewProject(root, cols)
	}
	return root, nil
}

// Explain plans stmt and renders the tree without running it.
func Explain(ctx context.Context, stmt *ast.SelectStatement, source operator.RowSource, opts Options) (string, error) {
	root, err := Build(ctx, stmt, source, opts)
	if err != nil {
		return "", err
	}
	return operator.Explain(root), nil
}

// checkColumns verifies every column the statement names exists.
func checkColumns(ctx context.Context, stmt *ast.SelectStatement, schema Schema) error {
	names, err := schema.ColumnNames(ctx, stmt.TableName)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	check := func(where, col string) error {
		if !known[col] {
			return fmt.Errorf("%w %q in %s of table %s", ErrUnknownColumn, col, where, stmt.TableName)
		}
		return nil
	}

	outputs := make(map[string]bool, len(stmt.SelectElements))
	for _, el := range stmt.SelectElements {
		if err := check("select list", el.Column); err != nil {
			return err
		}
		if outputs[el.OutputName()] {
			return fmt.Errorf("%w: duplicate output column %q", ErrInvalidStatement, el.OutputName())
		}
		outputs[el.OutputName()] = true
	}
	if cond := stmt.Condition(); cond != nil {
		for _, col := range ast.Columns(cond) {
			if err := check("WHERE", col); err != nil {
				return err
			}
		}
	}
	for _, o := range stmt.OrderBy {
		if err := check("ORDER BY", o.Column); err != nil {
			return err
		}
	}
	return nil
}
