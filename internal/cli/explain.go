package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ExplainOutput is the JSON payload of the explain command.
type ExplainOutput struct {
	QueryID     string       `json:"query_id"`
	SQL         string       `json:"sql"`
	Rewritten   string       `json:"rewritten"`
	Condition   string       `json:"condition,omitempty"`
	Passes      []PassOutput `json:"passes"`
	Plan        []string     `json:"plan"`
	Fingerprint string       `json:"fingerprint"`
}

// PassOutput is the condition after one rewrite pass.
type PassOutput struct {
	Pass      string `json:"pass"`
	Condition string `json:"condition"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <sql>",
		Short: "Show the rewritten query and its plan",
		Long: `Parse, rewrite and plan a SELECT without running it.

Prints the condition after each rewrite pass and the operator tree, one
operator per line, children indented under their parent.

Example:
  qcore explain "SELECT name FROM people WHERE FALSE OR age > 18 ORDER BY age"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, args[0], cmd)
		},
	}
}

func runExplain(opts *RootOptions, sql string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	sess, err := opts.openSession(cmd, f)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.engine.Explain(cmd.Context(), sql)
	if err != nil {
		return reportQueryError(f, err)
	}

	plan := strings.Split(strings.TrimRight(res.Plan, "\n"), "\n")
	passes := make([]PassOutput, len(res.Steps))
	for i, step := range res.Steps {
		passes[i] = PassOutput{Pass: step.Pass, Condition: step.Condition.String()}
	}

	if f.IsJSON() {
		return f.SuccessFor(res.QueryID, ExplainOutput{
			QueryID:     res.QueryID,
			SQL:         res.SQL,
			Rewritten:   res.Rewritten.String(),
			Condition:   res.Condition(),
			Passes:      passes,
			Plan:        plan,
			Fingerprint: res.Rewritten.Fingerprint(),
		})
	}

	w := f.Writer
	fmt.Fprintf(w, "Query:     %s\n", res.SQL)
	fmt.Fprintf(w, "Rewritten: %s\n", res.Rewritten)
	if len(passes) > 0 {
		fmt.Fprintln(w, "Passes:")
		for _, p := range passes {
			fmt.Fprintf(w, "  %-18s %s\n", p.Pass, p.Condition)
		}
	}
	fmt.Fprintln(w, "Plan:")
	for _, line := range plan {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}
