package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one query and what it must produce.
type Scenario struct {
	// Name uniquely identifies the scenario. It also names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Fixture is the CUE fixture seeding the store. Relative paths are
	// resolved against the scenario file's directory by LoadScenario.
	Fixture string `yaml:"fixture"`

	// QueryID fixes the query ID. Defaults to "test-query-default".
	QueryID string `yaml:"query_id,omitempty"`

	// SQL is the query text.
	SQL string `yaml:"sql"`

	// Expect holds the expected outcome.
	Expect Expect `yaml:"expect"`

	// Assertions are extra checks on the outcome.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect describes the expected outcome of the query. Unset fields are not
// checked.
type Expect struct {
	// Condition is the rewritten WHERE condition as SQL. An empty string
	// means the rewritten statement has no condition.
	Condition *string `yaml:"condition,omitempty"`

	// Rows is the exact, ordered result.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// RowCount is the expected number of result rows.
	RowCount *int `yaml:"row_count,omitempty"`

	// Plan is the expected plan text.
	Plan string `yaml:"plan,omitempty"`

	// Error is the QueryError code the query must fail with.
	Error string `yaml:"error,omitempty"`
}

// Assertion is an extra check on a scenario's outcome.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Text is the plan fragment (plan_contains, plan_excludes).
	Text string `yaml:"text,omitempty"`

	// Row is the subset a result row must match (row_contains).
	Row map[string]any `yaml:"row,omitempty"`

	// Columns is the expected output column list (columns).
	Columns []string `yaml:"columns,omitempty"`

	// Count is the expected number of table scans (scan_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPlanContains = "plan_contains"
	AssertPlanExcludes = "plan_excludes"
	AssertRowContains  = "row_contains"
	AssertColumns      = "columns"
	AssertScanCount    = "scan_count"
)

// LoadScenario reads and parses a scenario file, resolving its fixture
// relative to the file's directory.
//
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(filepath.Dir(path), scenario.Fixture)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. The fixture path is left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid scenario: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if s.SQL == "" {
		return fmt.Errorf("sql is required")
	}
	if s.Expect.Error != "" && (s.Expect.Rows != nil || s.Expect.RowCount != nil || s.Expect.Plan != "") {
		return fmt.Errorf("expect.error cannot be combined with rows, row_count or plan")
	}
	if s.Expect.RowCount != nil && *s.Expect.RowCount < 0 {
		return fmt.Errorf("expect.row_count must be non-negative")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPlanContains, AssertPlanExcludes:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertRowContains:
		if len(a.Row) == 0 {
			return fmt.Errorf("assertions[%d]: row is required for row_contains", index)
		}
	case AssertColumns:
		if len(a.Columns) == 0 {
			return fmt.Errorf("assertions[%d]: columns list is required for columns", index)
		}
	case AssertScanCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for scan_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
