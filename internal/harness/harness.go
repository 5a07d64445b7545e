package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/roach88/qcore/internal/catalog"
	"github.com/roach88/qcore/internal/engine"
	"github.com/roach88/qcore/internal/operator"
	"github.com/roach88/qcore/internal/planner"
	"github.com/roach88/qcore/internal/store"
	"github.com/roach88/qcore/internal/testutil"
)

// Harness holds what one scenario run needs.
type Harness struct {
	store  *store.Store
	source *countingSource
	engine *engine.Engine
	logger *slog.Logger
}

// Option configures a run.
type Option func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger routes engine and harness logs to logger. Runs are silent by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// Run executes a scenario and checks its outcome.
//
// Each run gets a fresh SQLite database in a temporary directory, seeded
// from the scenario's fixture. A query failure is not an error of Run: it
// is recorded in the Result and checked against expect.error. Run returns
// an error only when the scenario could not be set up.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	dir, err := os.MkdirTemp("", "qcore-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "scenario.db"), store.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario store: %w", err)
	}
	defer st.Close()

	tables, err := catalog.Load(scenario.Fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}
	if err := catalog.Apply(ctx, st, tables); err != nil {
		return nil, fmt.Errorf("failed to apply fixture: %w", err)
	}

	src := &countingSource{inner: planner.StoreSource{Store: st}}
	h := &Harness{
		store:  st,
		source: src,
		engine: engine.New(src, testutil.NewFixedQueryID(scenario.QueryID), engine.WithLogger(o.logger)),
		logger: o.logger,
	}
	return h.execute(ctx, scenario), nil
}

// execute runs the query and checks the outcome.
func (h *Harness) execute(ctx context.Context, scenario *Scenario) *Result {
	result := NewResult()

	res, err := h.engine.Query(ctx, scenario.SQL)
	result.Query = res
	result.Err = err
	result.Scans = h.source.Scans()

	var qe *engine.QueryError
	if errors.As(err, &qe) {
		result.ErrorCode = string(qe.Code)
	}

	for _, msg := range Check(scenario, result) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"scans", result.Scans,
		"errors", len(result.Errors),
	)
	return result
}

// countingSource counts the scans a query opens.
type countingSource struct {
	inner planner.StoreSource
	scans atomic.Int64
}

func (s *countingSource) Scan(ctx context.Context, table string) (operator.RowCursor, error) {
	s.scans.Add(1)
	return s.inner.Scan(ctx, table)
}

func (s *countingSource) ColumnNames(ctx context.Context, table string) ([]string, error) {
	return s.inner.ColumnNames(ctx, table)
}

// Scans returns the number of Scan calls so far.
func (s *countingSource) Scans() int {
	return int(s.scans.Load())
}
