package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario path does not exist.
type ScenarioNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// ExpandPaths turns files and directories into a sorted list of scenario
// files. Directories contribute their *.yaml and *.yml files, not
// recursively.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, &ScenarioNotFoundError{Path: p}
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// SuiteResult summarizes a batch of scenario runs.
type SuiteResult struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`

	// Scenarios lists every run in file order.
	Scenarios []ScenarioReport `json:"scenarios"`

	// Failures repeats the runs that did not pass.
	Failures []ScenarioReport `json:"failures,omitempty"`
}

// ScenarioReport is the outcome of one scenario file.
type ScenarioReport struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// OK reports whether every scenario passed.
func (r *SuiteResult) OK() bool {
	return r.Failed == 0
}

// RunFiles loads and runs every scenario under paths.
//
// A scenario that fails to load or set up counts as failed; RunFiles only
// returns an error when paths cannot be expanded.
func RunFiles(ctx context.Context, paths []string, opts ...Option) (*SuiteResult, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{Scenarios: []ScenarioReport{}}
	for _, path := range files {
		result.Total++

		scenario, err := LoadScenario(path)
		if err != nil {
			result.fail(path, "", fmt.Sprintf("failed to load scenario: %v", err))
			continue
		}

		run, err := Run(ctx, scenario, opts...)
		if err != nil {
			result.fail(path, scenario.Name, fmt.Sprintf("scenario setup failed: %v", err))
			continue
		}
		if !run.Pass {
			result.fail(path, scenario.Name, run.Errors...)
			continue
		}
		result.Passed++
		result.Scenarios = append(result.Scenarios, ScenarioReport{Path: path, Name: scenario.Name, Pass: true})
	}
	return result, nil
}

func (r *SuiteResult) fail(path, name string, errs ...string) {
	r.Failed++
	report := ScenarioReport{Path: path, Name: name, Errors: errs}
	r.Scenarios = append(r.Scenarios, report)
	r.Failures = append(r.Failures, report)
}
