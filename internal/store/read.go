package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/queryir"
)

// Tables returns every user table name in byte order.
//
// Returns an empty slice (not nil) for an empty store.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT table_name
		FROM qcore_columns
		ORDER BY table_name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

// Columns returns the declared columns of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]Column, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT name, type
		FROM qcore_columns
		WHERE table_name = ?
		ORDER BY position ASC
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns of %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTable, table)
	}
	return columns, nil
}

// Scan opens a cursor over every row of table in insertion order.
// The caller must Close the cursor.
func (s *Store) Scan(ctx context.Context, table string) (*Cursor, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	columns, err := s.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	query, params, err := s.compiler.Compile(queryir.Scan{Table: table, Columns: names})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}

	rows, err := db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return &Cursor{table: table, columns: columns, rows: rows}, nil
}

// ReadAll returns every row of table. It is a convenience for tools and
// tests; query execution goes through Scan.
func (s *Store) ReadAll(ctx context.Context, table string) ([]ir.Record, error) {
	cur, err := s.Scan(ctx, table)
	if err != nil {
		return nil, err
	}

	out := []ir.Record{}
	for {
		row, ok, err := cur.Next()
		if err != nil {
			cur.Close()
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, row)
	}
	return out, cur.Close()
}

// Cursor reads one table row at a time.
//
// Cursor is not safe for concurrent use.
type Cursor struct {
	table   string
	columns []Column
	rows    *sql.Rows
	done    bool
}

// ErrCursorClosed is returned by Next on a closed cursor.
var ErrCursorClosed = errors.New("cursor is closed")

// Next returns the next row. ok is false once the table is exhausted.
func (c *Cursor) Next() (ir.Record, bool, error) {
	if c.rows == nil {
		return nil, false, ErrCursorClosed
	}
	if c.done {
		return nil, false, nil
	}

	if !c.rows.Next() {
		c.done = true
		if err := c.rows.Err(); err != nil {
			return nil, false, fmt.Errorf("iterate %s: %w", c.table, err)
		}
		return nil, false, nil
	}

	raw := make([]any, len(c.columns))
	dest := make([]any, len(c.columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		return nil, false, fmt.Errorf("scan %s: %w", c.table, err)
	}

	row := make(ir.Record, len(c.columns))
	for i, col := range c.columns {
		v, err := decodeValue(col, raw[i])
		if err != nil {
			return nil, false, fmt.Errorf("%s.%s: %w", c.table, col.Name, err)
		}
		row[col.Name] = v
	}
	return row, true, nil
}

// Close releases the underlying result set. Close is idempotent.
func (c *Cursor) Close() error {
	if c.rows == nil {
		return nil
	}
	rows := c.rows
	c.rows = nil
	return rows.Close()
}

// decodeValue converts a driver value to an IRValue using the column's
// declared type.
func decodeValue(col Column, raw any) (ir.IRValue, error) {
	switch v := raw.(type) {
	case nil:
		return ir.IRNull{}, nil
	case float64:
		return nil, fmt.Errorf("REAL value %v is not supported", v)
	case int64:
		if col.Type == queryir.TypeBoolean {
			return ir.IRBool(v != 0), nil
		}
		return ir.IRInt(v), nil
	case bool:
		return ir.IRBool(v), nil
	case string:
		return ir.IRString(v), nil
	case []byte:
		return ir.IRString(string(v)), nil
	default:
		return ir.FromGo(raw)
	}
}
