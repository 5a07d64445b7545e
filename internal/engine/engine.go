package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/qcore/internal/ast"
	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/operator"
	"github.com/roach88/qcore/internal/optimizer"
	"github.com/roach88/qcore/internal/parser"
	"github.com/roach88/qcore/internal/planner"
)

// DefaultMaxSortRows bounds how many rows a Sort may buffer.
const DefaultMaxSortRows = 100_000

// Engine parses, rewrites, plans and runs SELECT queries against a
// RowSource.
type Engine struct {
	source operator.RowSource
	ids    IDGenerator
	clock  *Clock
	logger *slog.Logger

	maxSortRows   int // Sort buffer bound (default: DefaultMaxSortRows)
	maxResultRows int // Result row quota, 0 = unlimited
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxSortRows bounds the rows a Sort operator buffers. Zero removes
// the bound.
func WithMaxSortRows(n int) Option {
	return func(e *Engine) {
		e.maxSortRows = n
	}
}

// WithMaxResultRows sets the per-query result row quota. Zero removes it.
func WithMaxResultRows(n int) Option {
	return func(e *Engine) {
		e.maxResultRows = n
	}
}

// WithClock replaces the engine's clock, e.g. to resume a seq.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Engine reading tables from source and naming queries with
// ids. A nil ids uses UUIDv7Generator.
func New(source operator.RowSource, ids IDGenerator, opts ...Option) *Engine {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	e := &Engine{
		source:      source,
		ids:         ids,
		clock:       NewClock(),
		logger:      slog.Default(),
		maxSortRows: DefaultMaxSortRows,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one query.
type Result struct {
	QueryID string
	Seq     int64
	SQL     string

	// Statement is the parsed query; Rewritten is what was planned.
	Statement *ast.SelectStatement
	Rewritten *ast.SelectStatement

	// Steps holds the condition after each rewrite pass.
	Steps []optimizer.Step

	// Columns lists the output columns in display order.
	Columns []string

	// Rows is nil for Explain.
	Rows []operator.Row

	// Plan is the operator tree as indented text.
	Plan string
}

// Condition returns the rewritten WHERE condition as SQL, or "" when the
// rewritten statement has none.
func (r *Result) Condition() string {
	if r.Rewritten == nil {
		return ""
	}
	if cond := r.Rewritten.Condition(); cond != nil {
		return cond.String()
	}
	return ""
}

// Query runs sql and returns every result row.
func (e *Engine) Query(ctx context.Context, sql string) (*Result, error) {
	res, root, err := e.prepare(ctx, sql)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	quota := NewRowQuota(e.maxResultRows)
	rows := make([]operator.Row, 0)
	err = operator.Drain(ctx, root, func(row operator.Row) error {
		if err := quota.Check(res.QueryID); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		code := ErrCodeExecution
		if IsRowsExceededError(err) {
			code = ErrCodeQuotaExceeded
		}
		e.logger.Warn("query failed",
			"query_id", res.QueryID,
			"seq", res.Seq,
			"code", string(code),
			"error", err,
		)
		return nil, newQueryError(code, res.QueryID, err)
	}

	res.Rows = rows
	if res.Columns == nil {
		res.Columns = columnsOfRows(rows)
	}

	e.logger.Info("query completed",
		"query_id", res.QueryID,
		"seq", res.Seq,
		"table", res.Rewritten.TableName,
		"rows", len(rows),
		"duration", time.Since(start),
	)
	return res, nil
}

// Explain parses, rewrites and plans sql without opening the plan.
func (e *Engine) Explain(ctx context.Context, sql string) (*Result, error) {
	res, _, err := e.prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	e.logger.Info("query explained",
		"query_id", res.QueryID,
		"seq", res.Seq,
		"table", res.Rewritten.TableName,
	)
	return res, nil
}

// prepare runs the parse, optimize and plan stages.
func (e *Engine) prepare(ctx context.Context, sql string) (*Result, operator.Operator, error) {
	res := &Result{
		QueryID: e.ids.Generate(),
		Seq:     e.clock.Next(),
		SQL:     sql,
	}

	stmt, err := parser.Parse(sql)
	if err != nil {
		e.logger.Debug("parse failed", "query_id", res.QueryID, "error", err)
		return nil, nil, newQueryError(ErrCodeParse, res.QueryID, err)
	}
	res.Statement = stmt

	rewritten, steps := optimizer.Trace(stmt)
	res.Rewritten = rewritten
	res.Steps = steps
	for _, step := range steps {
		e.logger.Debug("rewrite pass",
			"query_id", res.QueryID,
			"pass", step.Pass,
			"condition", step.Condition.String(),
		)
	}

	root, err := planner.Build(ctx, rewritten, e.source, planner.Options{MaxSortRows: e.maxSortRows})
	if err != nil {
		e.logger.Debug("plan failed", "query_id", res.QueryID, "error", err)
		return nil, nil, newQueryError(ErrCodePlan, res.QueryID, err)
	}
	res.Plan = operator.Explain(root)
	res.Columns, err = e.outputColumns(ctx, rewritten)
	if err != nil {
		e.logger.Debug("plan failed", "query_id", res.QueryID, "error", err)
		return nil, nil, newQueryError(ErrCodePlan, res.QueryID, err)
	}

	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.Debug("plan built",
			"query_id", res.QueryID,
			"fingerprint", rewritten.Fingerprint(),
			"always_false", optimizer.IsAlwaysFalse(rewritten),
		)
	}
	return res, root, nil
}

// outputColumns returns the select list's output names. For * it returns
// the table's declared columns when the source can list them, and nil
// otherwise.
func (e *Engine) outputColumns(ctx context.Context, stmt *ast.SelectStatement) ([]string, error) {
	if stmt.SelectAll || len(stmt.SelectElements) == 0 {
		schema, ok := e.source.(planner.Schema)
		if !ok {
			return nil, nil
		}
		return schema.ColumnNames(ctx, stmt.TableName)
	}
	cols := make([]string, len(stmt.SelectElements))
	for i, el := range stmt.SelectElements {
		cols[i] = el.OutputName()
	}
	return cols, nil
}

// columnsOfRows returns every column name seen in rows, in canonical order.
// It names the columns of * over a source without a schema.
func columnsOfRows(rows []operator.Row) []string {
	seen := make(ir.Record)
	for _, row := range rows {
		for k := range row {
			seen[k] = ir.IRNull{}
		}
	}
	return seen.SortedKeys()
}
