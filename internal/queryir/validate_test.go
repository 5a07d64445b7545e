package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/qcore/internal/ir"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		stmt    Statement
		wantErr string
	}{
		{"scan", Scan{Table: "users", Columns: []string{"id", "name"}}, ""},
		{"scan pointer", &Scan{Table: "users", Columns: []string{"id"}}, ""},
		{"create", CreateTable{Table: "t", Columns: []ColumnDef{{"a", "int"}, {"b", "text"}, {"c", "bool"}}}, ""},
		{"insert", Insert{Table: "t", Columns: []string{"a"}, Values: []ir.IRValue{ir.IRInt(1)}}, ""},
		{"nil", nil, "nil statement"},
		{"empty table", Scan{Columns: []string{"a"}}, "empty table name"},
		{"no columns", Scan{Table: "t"}, "selects no columns"},
		{"bad ident", Scan{Table: "t; DROP", Columns: []string{"a"}}, "invalid table name"},
		{"leading digit", Scan{Table: "t", Columns: []string{"1a"}}, "invalid column name"},
		{"reserved", CreateTable{Table: "qcore_columns", Columns: []ColumnDef{{"a", "INTEGER"}}}, "reserved prefix"},
		{"real rejected", CreateTable{Table: "t", Columns: []ColumnDef{{"a", "REAL"}}}, `unsupported type "REAL"`},
		{"duplicate", CreateTable{Table: "t", Columns: []ColumnDef{{"a", "INTEGER"}, {"A", "TEXT"}}}, "duplicate column"},
		{"arity", Insert{Table: "t", Columns: []string{"a", "b"}, Values: []ir.IRValue{ir.IRInt(1)}}, "2 columns but 1 values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.stmt)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeType(t *testing.T) {
	for in, want := range map[string]string{
		"integer": TypeInteger, " BIGINT ": TypeInteger,
		"varchar": TypeText, "Text": TypeText,
		"bool": TypeBoolean,
	} {
		got, ok := NormalizeType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"REAL", "FLOAT", "DOUBLE", "BLOB", ""} {
		_, ok := NormalizeType(bad)
		assert.False(t, ok, bad)
	}
}

func TestNewInsert_CanonicalColumnOrder(t *testing.T) {
	ins := NewInsert("t", ir.Record{"b": ir.IRInt(2), "a": ir.IRString("x")})
	assert.Equal(t, []string{"a", "b"}, ins.Columns)
	assert.Equal(t, []ir.IRValue{ir.IRString("x"), ir.IRInt(2)}, ins.Values)
}
