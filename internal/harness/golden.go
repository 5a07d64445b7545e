package harness

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario run as stable text for golden comparison.
//
// The snapshot holds the query, its rewrite, the plan and the rows. Rows are
// canonical JSON, one per line, so identical results always render
// identically.
func Snapshot(name string, result *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)

	if result.Query == nil {
		fmt.Fprintf(&buf, "error: %s\n", result.ErrorCode)
		return buf.Bytes()
	}

	q := result.Query
	fmt.Fprintf(&buf, "query_id: %s\n", q.QueryID)
	fmt.Fprintf(&buf, "sql: %s\n", q.SQL)
	fmt.Fprintf(&buf, "rewritten: %s\n", q.Rewritten)
	fmt.Fprintf(&buf, "condition: %s\n", describeCondition(q.Condition()))

	buf.WriteString("passes:\n")
	for _, step := range q.Steps {
		fmt.Fprintf(&buf, "  %s: %s\n", step.Pass, step.Condition)
	}

	buf.WriteString("plan:\n")
	for _, line := range strings.Split(strings.TrimRight(q.Plan, "\n"), "\n") {
		fmt.Fprintf(&buf, "  %s\n", line)
	}

	fmt.Fprintf(&buf, "columns: %s\n", strings.Join(q.Columns, ", "))
	fmt.Fprintf(&buf, "scans: %d\n", result.Scans)
	buf.WriteString("rows:\n")
	for _, row := range q.Rows {
		fmt.Fprintf(&buf, "  %s\n", formatRow(row))
	}
	return buf.Bytes()
}

// RunWithGolden runs a scenario, fails the test on any check failure and
// compares the snapshot with testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares a result's snapshot with the golden file
// testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
