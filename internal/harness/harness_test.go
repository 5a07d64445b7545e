package harness

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcore/internal/ast"
	"github.com/roach88/qcore/internal/engine"
	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/operator"
)

const fixturePath = "testdata/fixtures/people.cue"

func ptr[T any](v T) *T { return &v }

func TestRun_Passes(t *testing.T) {
	s := &Scenario{
		Name:    "inline",
		Fixture: fixturePath,
		SQL:     "SELECT name FROM people WHERE TRUE AND age >= 21 ORDER BY age",
		Expect: Expect{
			Condition: ptr("age >= 21"),
			Rows: []map[string]any{
				{"name": "dee"},
				{"name": "ada"},
			},
		},
		Assertions: []Assertion{
			{Type: AssertScanCount, Count: 1},
			{Type: AssertPlanContains, Text: "Sort age ASC"},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "test-query-default", result.Query.QueryID)
}

func TestRun_ReportsMismatches(t *testing.T) {
	s := &Scenario{
		Name:    "wrong",
		Fixture: fixturePath,
		SQL:     "SELECT name FROM people WHERE FALSE OR age > 30",
		Expect: Expect{
			Condition: ptr("FALSE OR age > 30"),
			RowCount:  ptr(2),
		},
		Assertions: []Assertion{
			{Type: AssertScanCount, Count: 0},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Assertion failed: condition")
	assert.Contains(t, result.Errors[0], "Actual: age > 30")
	assert.Contains(t, result.Errors[1], "Assertion failed: row_count")
	assert.Contains(t, result.Errors[2], "Assertion failed: scan_count")
}

func TestRun_ExpectedError(t *testing.T) {
	s := &Scenario{
		Name:    "parse",
		Fixture: fixturePath,
		SQL:     "SELECT name FROM",
		Expect:  Expect{Error: string(engine.ErrCodeParse)},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "PARSE_ERROR", result.ErrorCode)
	assert.Nil(t, result.Query)
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{
		Name:    "missing",
		Fixture: fixturePath,
		SQL:     "SELECT * FROM nowhere",
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Expected: query succeeds")
}

func TestRun_BadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`tables: t: columns: [{name: "x", type: "REAL"}]`), 0o644))

	_, err := Run(context.Background(), &Scenario{Name: "bad", Fixture: path, SQL: "SELECT * FROM t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load fixture")
}

func TestRun_LogsWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := Run(context.Background(), &Scenario{
		Name:    "logged",
		Fixture: fixturePath,
		SQL:     "SELECT * FROM people",
	}, WithLogger(logger))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "scenario completed")
	assert.Contains(t, buf.String(), "query completed")
}

func queryResult(rows []operator.Row, cols []string) *Result {
	r := NewResult()
	r.Query = &engine.Result{
		Rewritten: &ast.SelectStatement{TableName: "t", SelectAll: true},
		Rows:      rows,
		Columns:   cols,
		Plan:      "Project a\n  TableScan t\n",
	}
	r.Scans = 1
	return r
}

func TestCheck_Assertions(t *testing.T) {
	rows := []operator.Row{
		{"a": ir.IRInt(1), "b": ir.IRString("x")},
		{"a": ir.IRInt(2), "b": ir.IRNull{}},
	}

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"plan contains", Assertion{Type: AssertPlanContains, Text: "TableScan t"}, ""},
		{"plan contains missing", Assertion{Type: AssertPlanContains, Text: "Filter"}, "not found"},
		{"plan excludes", Assertion{Type: AssertPlanExcludes, Text: "Filter"}, ""},
		{"plan excludes present", Assertion{Type: AssertPlanExcludes, Text: "Project"}, "plan without"},
		{"row contains", Assertion{Type: AssertRowContains, Row: map[string]any{"a": 2, "b": nil}}, ""},
		{"row contains subset", Assertion{Type: AssertRowContains, Row: map[string]any{"b": "x"}}, ""},
		{"row contains missing", Assertion{Type: AssertRowContains, Row: map[string]any{"a": 3}}, `a row matching {"a":3}`},
		{"row contains bad value", Assertion{Type: AssertRowContains, Row: map[string]any{"a": 1.5}}, "floats are not supported"},
		{"columns", Assertion{Type: AssertColumns, Columns: []string{"a", "b"}}, ""},
		{"columns differ", Assertion{Type: AssertColumns, Columns: []string{"b", "a"}}, "Expected: b, a"},
		{"scan count", Assertion{Type: AssertScanCount, Count: 1}, ""},
		{"scan count differs", Assertion{Type: AssertScanCount, Count: 0}, "Actual: 1 scans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{Name: "s", Assertions: []Assertion{tt.assertion}}
			errs := Check(s, queryResult(rows, []string{"a", "b"}))
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestCheck_RowsAreOrdered(t *testing.T) {
	rows := []operator.Row{{"a": ir.IRInt(1)}, {"a": ir.IRInt(2)}}

	errs := Check(&Scenario{Expect: Expect{Rows: []map[string]any{{"a": 1}, {"a": 2}}}}, queryResult(rows, nil))
	assert.Empty(t, errs)

	errs = Check(&Scenario{Expect: Expect{Rows: []map[string]any{{"a": 2}, {"a": 1}}}}, queryResult(rows, nil))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `Expected: row 0 = {"a":2}`)

	errs = Check(&Scenario{Expect: Expect{Rows: []map[string]any{{"a": 1}}}}, queryResult(rows, nil))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: 1 rows")
}

func TestCheck_Plan(t *testing.T) {
	errs := Check(&Scenario{Expect: Expect{Plan: "TableScan t\n"}}, queryResult(nil, nil))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: plan")
}

func TestCheck_WrongErrorCode(t *testing.T) {
	r := NewResult()
	r.Err = errors.New("boom")
	r.ErrorCode = string(engine.ErrCodeExecution)

	errs := Check(&Scenario{Expect: Expect{Error: string(engine.ErrCodePlan)}}, r)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: PLAN_ERROR")
	assert.Contains(t, errs[0], "Actual: EXECUTION_ERROR (boom)")

	errs = Check(&Scenario{Expect: Expect{Error: string(engine.ErrCodePlan)}}, queryResult(nil, nil))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: query succeeded")
}

func TestAssertionError_IncludesPlan(t *testing.T) {
	err := &AssertionError{Type: "rows", Expected: "1 rows", Actual: "0 rows", Plan: "Project a\n  Empty\n"}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: rows\n")
	assert.Contains(t, msg, "\nPlan:\n  Project a\n    Empty\n")
}
