package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qcore/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario-file-or-dir>...",
		Short: "Run query scenarios",
		Long: `Run YAML query scenarios through the scenario harness.

Each scenario seeds a fresh temporary database from its CUE fixture, runs
one query and checks the rewritten condition, rows, plan and assertions.
Directories contribute their *.yaml and *.yml files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, bad filter)

Examples:
  qcore test ./scenarios
  qcore test ./scenarios --filter "where_*"
  qcore test ./scenarios/true_and.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by file name glob pattern")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	files, err := harness.ExpandPaths(paths)
	if err != nil {
		var nf *harness.ScenarioNotFoundError
		if errors.As(err, &nf) {
			return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("scenario path not found: %s", nf.Path), err)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}

	files, err = filterScenarios(files, opts.Filter)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}

	if len(files) == 0 {
		if f.IsJSON() {
			return f.Success(&harness.SuiteResult{Scenarios: []harness.ScenarioReport{}})
		}
		_, err := fmt.Fprintln(f.Writer, "No scenarios found.")
		return err
	}

	var runOpts []harness.Option
	if opts.Verbose {
		cfg, err := opts.loadConfig()
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), err)
		}
		runOpts = append(runOpts, harness.WithLogger(opts.logger(cfg, cmd.ErrOrStderr())))
	}

	result, err := harness.RunFiles(cmd.Context(), files, runOpts...)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}

	if f.IsJSON() {
		if result.OK() {
			return f.Success(result)
		}
		if err := f.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	return outputTestText(f, result)
}

// filterScenarios keeps files whose base name, without extension, matches
// pattern. An empty pattern keeps everything.
func filterScenarios(files []string, pattern string) ([]string, error) {
	if pattern == "" {
		return files, nil
	}
	var out []string
	for _, path := range files {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			out = append(out, path)
		}
	}
	return out, nil
}

// outputTestText prints one line per scenario and a summary.
func outputTestText(f *OutputFormatter, result *harness.SuiteResult) error {
	w := f.Writer
	for _, s := range result.Scenarios {
		name := s.Name
		if name == "" {
			name = filepath.Base(s.Path)
		}
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", name)
		for _, e := range s.Errors {
			for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
