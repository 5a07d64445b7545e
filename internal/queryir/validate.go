package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every problem with a statement, joined into one error.
// A nil result means any backend can execute it.
//
// Validate is a pure function with no side effects.
func Validate(stmt Statement) error {
	v := &validator{}
	v.validateStatement(stmt)
	return errors.Join(v.problems...)
}

type validator struct {
	problems []error
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Errorf(format, args...))
}

func (v *validator) validateStatement(stmt Statement) {
	switch s := stmt.(type) {
	case nil:
		v.addProblem("nil statement")
	case Scan:
		v.validateScan(s)
	case *Scan:
		v.validateScan(*s)
	case CreateTable:
		v.validateCreate(s)
	case *CreateTable:
		v.validateCreate(*s)
	case Insert:
		v.validateInsert(s)
	case *Insert:
		v.validateInsert(*s)
	default:
		v.addProblem("unknown statement type %T", stmt)
	}
}

func (v *validator) validateScan(s Scan) {
	v.validateIdent("table", s.Table)
	if len(s.Columns) == 0 {
		v.addProblem("scan of %q selects no columns", s.Table)
	}
	v.validateColumnNames(s.Columns)
}

func (v *validator) validateCreate(s CreateTable) {
	v.validateIdent("table", s.Table)
	if len(s.Columns) == 0 {
		v.addProblem("table %q has no columns", s.Table)
	}
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
		if _, ok := NormalizeType(c.Type); !ok {
			v.addProblem("column %q: unsupported type %q", c.Name, c.Type)
		}
	}
	v.validateColumnNames(names)
}

func (v *validator) validateInsert(s Insert) {
	v.validateIdent("table", s.Table)
	if len(s.Columns) != len(s.Values) {
		v.addProblem("insert into %q: %d columns but %d values", s.Table, len(s.Columns), len(s.Values))
	}
	v.validateColumnNames(s.Columns)
}

func (v *validator) validateColumnNames(names []string) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		v.validateIdent("column", n)
		key := strings.ToLower(n)
		if seen[key] {
			v.addProblem("duplicate column %q", n)
		}
		seen[key] = true
	}
}

// validateIdent rejects names the parser could never produce, so every
// stored table and column is reachable from a query.
func (v *validator) validateIdent(what, name string) {
	if name == "" {
		v.addProblem("empty %s name", what)
		return
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !letter && !(digit && i > 0) {
			v.addProblem("invalid %s name %q", what, name)
			return
		}
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "qcore_") || strings.HasPrefix(lower, "sqlite_") {
		v.addProblem("%s name %q uses a reserved prefix", what, name)
	}
}
