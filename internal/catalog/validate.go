package catalog

import (
	"fmt"
	"strings"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/queryir"
)

// Validation error codes (E200-E299)
const (
	ErrNoColumns       = "E201" // table declares no columns
	ErrInvalidType     = "E202" // unsupported column type
	ErrDuplicateColumn = "E203" // column declared twice
	ErrUnknownColumn   = "E204" // row uses an undeclared column
	ErrTypeMismatch    = "E205" // row value does not match its column
	ErrInvalidName     = "E206" // table or column name not usable in SQL
)

// ValidationError represents a fixture validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks tables before they are applied.
// Returns all errors found (does not fail-fast).
func Validate(tables []Table) []ValidationError {
	var errs []ValidationError
	for _, t := range tables {
		errs = append(errs, validateTable(t)...)
	}
	return errs
}

func validateTable(t Table) []ValidationError {
	var errs []ValidationError
	field := "tables." + t.Name

	if err := queryir.Validate(queryir.Scan{Table: t.Name, Columns: []string{"_"}}); err != nil {
		errs = append(errs, ValidationError{Field: field, Message: err.Error(), Code: ErrInvalidName})
	}

	if len(t.Columns) == 0 {
		errs = append(errs, ValidationError{Field: field + ".columns", Message: "at least one column is required", Code: ErrNoColumns})
	}

	types := make(map[string]string, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		cf := fmt.Sprintf("%s.columns[%d]", field, i)
		if err := queryir.Validate(queryir.Scan{Table: "t", Columns: []string{c.Name}}); err != nil {
			errs = append(errs, ValidationError{Field: cf, Message: err.Error(), Code: ErrInvalidName})
		}
		if seen[strings.ToLower(c.Name)] {
			errs = append(errs, ValidationError{Field: cf, Message: fmt.Sprintf("duplicate column %q", c.Name), Code: ErrDuplicateColumn})
		}
		norm, ok := queryir.NormalizeType(c.Type)
		if !ok {
			errs = append(errs, ValidationError{Field: cf, Message: fmt.Sprintf("unsupported type %q (use INTEGER, TEXT or BOOLEAN)", c.Type), Code: ErrInvalidType})
		}
		seen[strings.ToLower(c.Name)] = true
		types[c.Name] = norm
	}

	for i, row := range t.Rows {
		rf := fmt.Sprintf("%s.rows[%d]", field, i)
		for _, name := range row.SortedKeys() {
			declared, ok := types[name]
			if !ok {
				errs = append(errs, ValidationError{Field: rf + "." + name, Message: "column is not declared", Code: ErrUnknownColumn})
				continue
			}
			if declared == "" || ir.IsNull(row[name]) {
				continue
			}
			if got := columnTypeOf(row[name]); got != declared {
				errs = append(errs, ValidationError{
					Field:   rf + "." + name,
					Message: fmt.Sprintf("column is %s, value %s is %s", declared, ir.Format(row[name]), got),
					Code:    ErrTypeMismatch,
				})
			}
		}
	}
	return errs
}

func columnTypeOf(v ir.IRValue) string {
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
