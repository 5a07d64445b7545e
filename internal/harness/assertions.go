package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/operator"
)

// AssertionError describes one failed check.
type AssertionError struct {
	Type     string // check that failed
	Expected string
	Actual   string
	Plan     string // plan text, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Plan != "" {
		fmt.Fprintf(&buf, "\nPlan:\n")
		for _, line := range strings.Split(strings.TrimRight(e.Plan, "\n"), "\n") {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}
	return buf.String()
}

// Check compares a run against the scenario's expect clause and
// assertions, returning one message per failure.
func Check(scenario *Scenario, result *Result) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	exp := scenario.Expect
	if exp.Error != "" {
		if result.ErrorCode != exp.Error {
			add(&AssertionError{
				Type:     "error",
				Expected: exp.Error,
				Actual:   describeFailure(result),
			})
		}
		return errs
	}
	if result.Err != nil {
		add(&AssertionError{
			Type:     "query",
			Expected: "query succeeds",
			Actual:   result.Err.Error(),
		})
		return errs
	}

	q := result.Query
	if exp.Condition != nil && q.Condition() != *exp.Condition {
		add(&AssertionError{
			Type:     "condition",
			Expected: describeCondition(*exp.Condition),
			Actual:   describeCondition(q.Condition()),
			Plan:     q.Plan,
		})
	}
	if exp.Plan != "" && q.Plan != exp.Plan {
		add(&AssertionError{
			Type:     "plan",
			Expected: "\n" + exp.Plan,
			Actual:   "\n" + q.Plan,
		})
	}
	if exp.RowCount != nil && len(q.Rows) != *exp.RowCount {
		add(&AssertionError{
			Type:     "row_count",
			Expected: fmt.Sprintf("%d rows", *exp.RowCount),
			Actual:   fmt.Sprintf("%d rows", len(q.Rows)),
			Plan:     q.Plan,
		})
	}
	if exp.Rows != nil {
		add(assertRows(q.Rows, exp.Rows, q.Plan))
	}

	for _, a := range scenario.Assertions {
		add(evaluateAssertion(result, a))
	}
	return errs
}

func describeFailure(result *Result) string {
	if result.Err == nil {
		return "query succeeded"
	}
	if result.ErrorCode == "" {
		return result.Err.Error()
	}
	return fmt.Sprintf("%s (%v)", result.ErrorCode, result.Err)
}

func describeCondition(cond string) string {
	if cond == "" {
		return "no condition"
	}
	return cond
}

// assertRows requires an exact, ordered match.
func assertRows(actual []operator.Row, expected []map[string]any, plan string) error {
	want := make([]ir.Record, len(expected))
	for i, m := range expected {
		rec, err := toRecord(m)
		if err != nil {
			return fmt.Errorf("expect.rows[%d]: %w", i, err)
		}
		want[i] = rec
	}

	if len(actual) != len(want) {
		return &AssertionError{
			Type:     "rows",
			Expected: fmt.Sprintf("%d rows %s", len(want), formatRows(want)),
			Actual:   fmt.Sprintf("%d rows %s", len(actual), formatRows(actual)),
			Plan:     plan,
		}
	}
	for i := range want {
		if !actual[i].Equal(want[i]) {
			return &AssertionError{
				Type:     "rows",
				Expected: fmt.Sprintf("row %d = %s", i, formatRow(want[i])),
				Actual:   fmt.Sprintf("row %d = %s", i, formatRow(actual[i])),
				Plan:     plan,
			}
		}
	}
	return nil
}

func evaluateAssertion(result *Result, a Assertion) error {
	q := result.Query
	switch a.Type {
	case AssertPlanContains:
		if !strings.Contains(q.Plan, a.Text) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("plan contains %q", a.Text), Actual: "not found", Plan: q.Plan}
		}
	case AssertPlanExcludes:
		if strings.Contains(q.Plan, a.Text) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("plan without %q", a.Text), Actual: "found", Plan: q.Plan}
		}
	case AssertRowContains:
		want, err := toRecord(a.Row)
		if err != nil {
			return fmt.Errorf("row_contains: %w", err)
		}
		for _, row := range q.Rows {
			if matchRow(row, want) {
				return nil
			}
		}
		return &AssertionError{Type: a.Type, Expected: "a row matching " + formatRow(want), Actual: formatRows(q.Rows)}
	case AssertColumns:
		if !slices.Equal(q.Columns, a.Columns) {
			return &AssertionError{
				Type:     a.Type,
				Expected: strings.Join(a.Columns, ", "),
				Actual:   strings.Join(q.Columns, ", "),
			}
		}
	case AssertScanCount:
		if result.Scans != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d scans", a.Count),
				Actual:   fmt.Sprintf("%d scans", result.Scans),
				Plan:     q.Plan,
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// matchRow reports whether row holds every column of want with an equal
// value. Extra columns in row are ignored.
func matchRow(row, want ir.Record) bool {
	for k, v := range want {
		got, ok := row[k]
		if !ok || !ir.Equal(got, v) {
			return false
		}
	}
	return true
}

// toRecord converts a YAML-decoded row to a record.
func toRecord(m map[string]any) (ir.Record, error) {
	rec := make(ir.Record, len(m))
	for k, v := range m {
		val, err := ir.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		rec[k] = val
	}
	return rec, nil
}

func formatRow(r ir.Record) string {
	b, err := ir.MarshalCanonical(r)
	if err != nil {
		return fmt.Sprintf("%v", map[string]ir.IRValue(r))
	}
	return string(b)
}

func formatRows(rows []ir.Record) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = formatRow(r)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
