package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/queryir"
)

// SQLCompiler compiles queryir statements to parameterized SQL for SQLite.
//
// CRITICAL: Every scan ends in ORDER BY rowid ASC so rows come back in
// insertion order on every run.
// CRITICAL: Values are always parameters, never interpolated. Identifiers
// are double-quoted.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a statement to SQL and its parameters. The statement
// is validated first.
func (c *SQLCompiler) Compile(stmt queryir.Statement) (string, []any, error) {
	if err := queryir.Validate(stmt); err != nil {
		return "", nil, fmt.Errorf("invalid statement: %w", err)
	}

	switch s := stmt.(type) {
	case queryir.Scan:
		return c.compileScan(s), nil, nil
	case *queryir.Scan:
		return c.compileScan(*s), nil, nil
	case queryir.CreateTable:
		return c.compileCreate(s), nil, nil
	case *queryir.CreateTable:
		return c.compileCreate(*s), nil, nil
	case queryir.Insert:
		return c.compileInsert(s)
	case *queryir.Insert:
		return c.compileInsert(*s)
	default:
		return "", nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

func (c *SQLCompiler) compileScan(s queryir.Scan) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		quoteList(s.Columns),
		QuoteIdent(s.Table),
		stableOrderKey())
}

// stableOrderKey is the ORDER BY every scan uses.
func stableOrderKey() string {
	return "rowid ASC"
}

func (c *SQLCompiler) compileCreate(s queryir.CreateTable) string {
	defs := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		defs[i] = QuoteIdent(col.Name) + " " + storageType(col.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(s.Table), strings.Join(defs, ", "))
}

// storageType maps a declared type onto the SQLite column affinity.
// BOOLEAN columns are stored as INTEGER.
func storageType(declared string) string {
	t, _ := queryir.NormalizeType(declared)
	if t == queryir.TypeBoolean {
		return queryir.TypeInteger
	}
	return t
}

func (c *SQLCompiler) compileInsert(s queryir.Insert) (string, []any, error) {
	params := make([]any, len(s.Values))
	for i, v := range s.Values {
		p, err := ir.ToGo(v)
		if err != nil {
			return "", nil, fmt.Errorf("column %q: %w", s.Columns[i], err)
		}
		params[i] = p
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.Columns)), ", ")
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(s.Table),
		quoteList(s.Columns),
		placeholders)
	return sql, params, nil
}

// QuoteIdent double-quotes an identifier, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
