package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/queryir"
)

// Column is a declared table column.
type Column = queryir.ColumnDef

// CreateTable declares a table. Column types are normalized ("int" becomes
// INTEGER) and REAL is rejected.
func (s *Store) CreateTable(ctx context.Context, name string, columns []Column) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	normalized := make([]Column, len(columns))
	for i, c := range columns {
		t, ok := queryir.NormalizeType(c.Type)
		if !ok {
			return fmt.Errorf("create table %s: column %q: unsupported type %q", name, c.Name, c.Type)
		}
		normalized[i] = Column{Name: c.Name, Type: t}
	}

	ddl, _, err := s.compiler.Compile(queryir.CreateTable{Table: name, Columns: normalized})
	if err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM qcore_columns WHERE table_name = ?`, name).Scan(&n); err != nil {
		return fmt.Errorf("check table %s: %w", name, err)
	}
	if n > 0 {
		return fmt.Errorf("create table %s: %w", name, ErrTableExists)
	}

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	for i, c := range normalized {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO qcore_columns (table_name, position, name, type) VALUES (?, ?, ?, ?)`,
			name, i, c.Name, c.Type); err != nil {
			return fmt.Errorf("record column %s.%s: %w", name, c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Insert adds one row to table. Every key must be a declared column and
// every non-NULL value must match the column's type. Missing columns are
// stored as NULL.
func (s *Store) Insert(ctx context.Context, table string, row ir.Record) error {
	return s.InsertRows(ctx, table, []ir.Record{row})
}

// InsertRows adds rows to table in one transaction, in order.
func (s *Store) InsertRows(ctx context.Context, table string, rows []ir.Record) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	columns, err := s.Columns(ctx, table)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, row := range rows {
		if err := s.insert(ctx, tx, table, columns, row); err != nil {
			return fmt.Errorf("insert into %s (row %d): %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, table string, columns []Column, row ir.Record) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row")
	}
	if err := checkRow(columns, row); err != nil {
		return err
	}

	query, params, err := s.compiler.Compile(queryir.NewInsert(table, row))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, params...); err != nil {
		return err
	}
	return nil
}

// checkRow verifies row against the declared columns.
func checkRow(columns []Column, row ir.Record) error {
	types := make(map[string]string, len(columns))
	for _, c := range columns {
		types[c.Name] = c.Type
	}

	for _, name := range row.SortedKeys() {
		declared, ok := types[name]
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		v := row[name]
		if ir.IsNull(v) {
			continue
		}
		if got := valueType(v); got != declared {
			return fmt.Errorf("column %q is %s, got %s value %s", name, declared, got, ir.Format(v))
		}
	}
	return nil
}

// valueType maps a value onto the column type that stores it.
func valueType(v ir.IRValue) string {
	switch v.(type) {
	case ir.IRInt:
		return queryir.TypeInteger
	case ir.IRString:
		return queryir.TypeText
	case ir.IRBool:
		return queryir.TypeBoolean
	default:
		return ir.TypeName(v)
	}
}
