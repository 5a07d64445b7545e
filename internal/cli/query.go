package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/qcore/internal/engine"
	"github.com/roach88/qcore/internal/ir"
)

// QueryOutput is the JSON payload of the query command.
type QueryOutput struct {
	QueryID   string      `json:"query_id"`
	SQL       string      `json:"sql"`
	Rewritten string      `json:"rewritten"`
	Condition string      `json:"condition,omitempty"`
	Columns   []string    `json:"columns"`
	Rows      []ir.Record `json:"rows"`
	RowCount  int         `json:"row_count"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SELECT query",
		Long: `Parse, rewrite, plan and run a single-table SELECT against the database.

The WHERE condition is simplified before planning: boolean literals are
folded and TRUE/FALSE identities removed. A condition that reduces to FALSE
returns no rows without reading the table.

Exit codes:
  0 - Query succeeded
  1 - Query failed while running (storage or evaluation error, row quota)
  2 - Invalid query, unknown table or column, or database error

Examples:
  qcore query "SELECT name FROM people WHERE TRUE AND age > 18"
  qcore query --db ./people.db --format json "SELECT * FROM people LIMIT 5"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], cmd)
		},
	}
}

func runQuery(opts *RootOptions, sql string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	sess, err := opts.openSession(cmd, f)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.engine.Query(cmd.Context(), sql)
	if err != nil {
		return reportQueryError(f, err)
	}

	if f.IsJSON() {
		return f.SuccessFor(res.QueryID, QueryOutput{
			QueryID:   res.QueryID,
			SQL:       res.SQL,
			Rewritten: res.Rewritten.String(),
			Condition: res.Condition(),
			Columns:   res.Columns,
			Rows:      res.Rows,
			RowCount:  len(res.Rows),
		})
	}

	f.VerboseLog("query %s: %s", res.QueryID, res.Rewritten)
	return writeTable(f.Writer, res.Columns, res.Rows)
}

// reportQueryError writes a query failure and maps it to an exit code:
// parse and plan errors are bad input (2), the rest are failures (1).
func reportQueryError(f *OutputFormatter, err error) error {
	var qe *engine.QueryError
	if !errors.As(err, &qe) {
		return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), err)
	}

	exit := ExitFailure
	if qe.Code == engine.ErrCodeParse || qe.Code == engine.ErrCodePlan {
		exit = ExitCommandError
	}
	return f.Fail(exit, string(qe.Code), qe.Err.Error(), err)
}

// writeTable prints rows as aligned columns followed by a row count.
func writeTable(w io.Writer, columns []string, rows []ir.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(columns) > 0 {
		fmt.Fprintln(tw, strings.Join(columns, "\t"))
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = displayValue(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	noun := "rows"
	if len(rows) == 1 {
		noun = "row"
	}
	_, err := fmt.Fprintf(w, "(%d %s)\n", len(rows), noun)
	return err
}

// displayValue renders a value for the text table. Strings are printed
// bare; everything else as its SQL literal.
func displayValue(v ir.IRValue) string {
	if s, ok := v.(ir.IRString); ok {
		return string(s)
	}
	return ir.Format(v)
}
