package catalog

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/store"
)

// Table is one fixture table.
type Table struct {
	Name    string
	Columns []store.Column
	Rows    []ir.Record
}

// CompileFixture extracts the tables of a fixture value. The value is the
// file root, holding a "tables" struct. Tables are returned sorted by name.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`tables: t: { columns: [...], rows: [...] }`)
//	tables, err := CompileFixture(v)
func CompileFixture(v cue.Value) ([]Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &CompileError{Field: "tables", Message: "fixture has no tables", Pos: v.Pos()}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tables []Table
	for iter.Next() {
		table, err := compileTable(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

func compileTable(name string, v cue.Value) (Table, error) {
	table := Table{Name: name}
	field := "tables." + name

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return Table{}, &CompileError{Field: field + ".columns", Message: "columns are required", Pos: v.Pos()}
	}
	colIter, err := colsVal.List()
	if err != nil {
		return Table{}, formatCUEError(err)
	}
	for i := 0; colIter.Next(); i++ {
		col, err := compileColumn(fmt.Sprintf("%s.columns[%d]", field, i), colIter.Value())
		if err != nil {
			return Table{}, err
		}
		table.Columns = append(table.Columns, col)
	}

	// Rows are optional; a table may start empty.
	rowsVal := v.LookupPath(cue.ParsePath("rows"))
	if !rowsVal.Exists() {
		return table, nil
	}
	rowIter, err := rowsVal.List()
	if err != nil {
		return Table{}, formatCUEError(err)
	}
	for i := 0; rowIter.Next(); i++ {
		row, err := compileRow(fmt.Sprintf("%s.rows[%d]", field, i), rowIter.Value())
		if err != nil {
			return Table{}, err
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func compileColumn(field string, v cue.Value) (store.Column, error) {
	var col store.Column
	for _, part := range []struct {
		key string
		dst *string
	}{{"name", &col.Name}, {"type", &col.Type}} {
		pv := v.LookupPath(cue.ParsePath(part.key))
		if !pv.Exists() {
			return store.Column{}, &CompileError{Field: field + "." + part.key, Message: part.key + " is required", Pos: v.Pos()}
		}
		s, err := pv.String()
		if err != nil {
			return store.Column{}, formatCUEError(err)
		}
		*part.dst = s
	}
	return col, nil
}

func compileRow(field string, v cue.Value) (ir.Record, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	row := ir.Record{}
	for iter.Next() {
		val, err := compileValue(field+"."+iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		row[iter.Label()] = val
	}
	return row, nil
}

// compileValue converts a concrete CUE scalar to an IRValue.
func compileValue(field string, v cue.Value) (ir.IRValue, error) {
	switch v.Kind() {
	case cue.NullKind:
		return ir.IRNull{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRBool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
		}
		return ir.IRInt(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRString(s), nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{Field: field, Message: "floats are not supported", Pos: v.Pos()}
	case cue.BottomKind:
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	return nil, &CompileError{Field: field, Message: fmt.Sprintf("value must be null, bool, int or string, got %v", v.IncompleteKind()), Pos: v.Pos()}
}

// CompileError represents a fixture error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
