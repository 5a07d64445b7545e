package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qcore/internal/catalog"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Tables []TableSummary `json:"tables"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <fixture>",
		Short: "Validate a CUE fixture without loading it",
		Long: `Compile and validate a CUE fixture without touching a database.

Checks column names and types, duplicate columns, and that every row value
matches its column's type.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	tables, err := catalog.Load(path)
	if err != nil {
		return reportLoadError(f, err)
	}

	summaries := summarize(tables)
	for _, s := range summaries {
		f.VerboseLog("table %s: %d column(s), %d row(s)", s.Name, s.Columns, s.Rows)
	}

	if f.IsJSON() {
		return f.Success(ValidationResult{Valid: true, Tables: summaries})
	}
	_, err = fmt.Fprintf(f.Writer, "✓ Fixture valid: %d table(s)\n", len(summaries))
	return err
}
