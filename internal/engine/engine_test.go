package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcore/internal/engine"
	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/operator"
	"github.com/roach88/qcore/internal/optimizer"
	"github.com/roach88/qcore/internal/parser"
	"github.com/roach88/qcore/internal/planner"
	"github.com/roach88/qcore/internal/store"
	"github.com/roach88/qcore/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func people() *testutil.RecordingSource {
	return testutil.NewRecordingSource(map[string][]operator.Row{
		"people": {
			{"name": ir.IRString("ada"), "age": ir.IRInt(36)},
			{"name": ir.IRString("bob"), "age": ir.IRInt(17)},
			{"name": ir.IRString("cy"), "age": ir.IRNull{}},
		},
	})
}

func newEngine(src operator.RowSource, opts ...engine.Option) *engine.Engine {
	opts = append([]engine.Option{engine.WithLogger(discardLogger())}, opts...)
	return engine.New(src, testutil.NewFixedQueryID("q-1"), opts...)
}

func TestQuery_FiltersAndProjects(t *testing.T) {
	e := newEngine(people())

	res, err := e.Query(context.Background(), "SELECT name FROM people WHERE TRUE AND age > 18")
	require.NoError(t, err)

	assert.Equal(t, "q-1", res.QueryID)
	assert.Equal(t, int64(1), res.Seq)
	assert.Equal(t, "age > 18", res.Condition())
	assert.Equal(t, []string{"name"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, ir.IRString("ada"), res.Rows[0]["name"])
	assert.Equal(t, "Project name\n  Filter age > 18\n    TableScan people\n", res.Plan)
}

func TestQuery_KeepsOriginalStatement(t *testing.T) {
	e := newEngine(people())

	res, err := e.Query(context.Background(), "SELECT * FROM people WHERE age > 18 OR FALSE")
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM people WHERE age > 18 OR FALSE", res.Statement.String())
	assert.Equal(t, "SELECT * FROM people WHERE age > 18", res.Rewritten.String())
	require.Len(t, res.Steps, 2)
	assert.Equal(t, optimizer.PassConstantFolding, res.Steps[0].Pass)
	assert.Equal(t, optimizer.PassSimplification, res.Steps[1].Pass)
	assert.Equal(t, []string{"age", "name"}, res.Columns)
}

func TestQuery_AlwaysFalseNeverScans(t *testing.T) {
	src := people()
	e := newEngine(src)

	res, err := e.Query(context.Background(), "SELECT name FROM people WHERE age > 18 AND FALSE")
	require.NoError(t, err)

	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
	assert.Equal(t, "FALSE", res.Condition())
	assert.Equal(t, 0, src.Scans())
	assert.Contains(t, res.Plan, "Empty (WHERE FALSE)")
}

func TestQuery_TrueConditionDropsFilter(t *testing.T) {
	e := newEngine(people())

	res, err := e.Query(context.Background(), "SELECT * FROM people WHERE TRUE OR age > 1")
	require.NoError(t, err)

	assert.Len(t, res.Rows, 3)
	assert.Equal(t, "", res.Condition())
	assert.NotContains(t, res.Plan, "Filter")
}

func TestQuery_OrderAndLimit(t *testing.T) {
	e := newEngine(people())

	res, err := e.Query(context.Background(), "SELECT name FROM people ORDER BY age DESC LIMIT 2")
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, ir.IRString("ada"), res.Rows[0]["name"])
	assert.Equal(t, ir.IRString("bob"), res.Rows[1]["name"])
}

func TestQuery_SeqIncreases(t *testing.T) {
	e := engine.New(people(), engine.NewFixedGenerator("a", "b"), engine.WithLogger(discardLogger()))

	first, err := e.Query(context.Background(), "SELECT * FROM people")
	require.NoError(t, err)
	second, err := e.Query(context.Background(), "SELECT * FROM people")
	require.NoError(t, err)

	assert.Equal(t, "a", first.QueryID)
	assert.Equal(t, "b", second.QueryID)
	assert.Less(t, first.Seq, second.Seq)
}

func TestQuery_ParseError(t *testing.T) {
	e := newEngine(people())

	_, err := e.Query(context.Background(), "SELECT FROM")
	require.Error(t, err)

	assert.True(t, engine.IsParseError(err))
	var pe *parser.Error
	assert.True(t, errors.As(err, &pe))
}

func TestQuery_NegativeLimitIsParseError(t *testing.T) {
	e := newEngine(people())

	_, err := e.Query(context.Background(), "SELECT * FROM people LIMIT -1")
	require.Error(t, err)

	assert.True(t, engine.IsParseError(err))
	assert.False(t, engine.IsPlanError(err))
}

func TestQuery_StarColumnsWithoutSchema(t *testing.T) {
	e := newEngine(people())

	res, err := e.Query(context.Background(), "SELECT * FROM people")
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "name"}, res.Columns)

	res, err = e.Query(context.Background(), "SELECT * FROM people WHERE FALSE")
	require.NoError(t, err)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)
}

func TestQuery_ExecutionErrorClosesScan(t *testing.T) {
	src := people()
	src.NextErr = errors.New("disk gone")
	src.FailAfter = 1
	e := newEngine(src)

	_, err := e.Query(context.Background(), "SELECT * FROM people WHERE age > 0")
	require.Error(t, err)

	assert.True(t, engine.IsExecutionError(err))
	assert.ErrorIs(t, err, src.NextErr)
	kind, ok := operator.Origin(err)
	require.True(t, ok)
	assert.Equal(t, operator.KindTableScan, kind)
	assert.Equal(t, 0, src.OpenCursors())
}

func TestQuery_RowQuota(t *testing.T) {
	src := people()
	e := newEngine(src, engine.WithMaxResultRows(2))

	_, err := e.Query(context.Background(), "SELECT * FROM people")
	require.Error(t, err)

	assert.True(t, engine.IsQuotaError(err))
	assert.True(t, engine.IsRowsExceededError(err))
	assert.False(t, engine.IsExecutionError(err))
	assert.Equal(t, 0, src.OpenCursors())
}

func TestQuery_SortBound(t *testing.T) {
	e := newEngine(people(), engine.WithMaxSortRows(2))

	_, err := e.Query(context.Background(), "SELECT * FROM people ORDER BY age")
	require.Error(t, err)

	var f *operator.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, operator.CodeResource, f.Code)
}

func TestQuery_Cancelled(t *testing.T) {
	e := newEngine(people())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Query(ctx, "SELECT * FROM people")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplain_DoesNotOpen(t *testing.T) {
	src := people()
	e := newEngine(src)

	res, err := e.Explain(context.Background(), "SELECT name AS who FROM people WHERE TRUE AND age >= 21")
	require.NoError(t, err)

	assert.Nil(t, res.Rows)
	assert.Equal(t, 0, src.Scans())
	assert.Equal(t, "Project name AS who\n  Filter age >= 21\n    TableScan people\n", res.Plan)
	assert.Equal(t, []string{"who"}, res.Columns)
}

func TestQuery_AgainstStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "q.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.CreateTable(ctx, "items", []store.Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "label", Type: "TEXT"},
		{Name: "active", Type: "BOOLEAN"},
	}))
	require.NoError(t, st.InsertRows(ctx, "items", []ir.Record{
		{"id": ir.IRInt(1), "label": ir.IRString("one"), "active": ir.IRBool(true)},
		{"id": ir.IRInt(2), "label": ir.IRString("two"), "active": ir.IRBool(false)},
		{"id": ir.IRInt(3), "label": ir.IRString("three"), "active": ir.IRBool(true)},
	}))

	e := newEngine(planner.StoreSource{Store: st})

	res, err := e.Query(ctx, "SELECT label FROM items WHERE active = TRUE AND (FALSE OR TRUE) ORDER BY id DESC")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, ir.IRString("three"), res.Rows[0]["label"])
	assert.Equal(t, ir.IRString("one"), res.Rows[1]["label"])

	res, err = e.Query(ctx, "SELECT * FROM items")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "active"}, res.Columns)

	res, err = e.Query(ctx, "SELECT * FROM items WHERE FALSE")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "active"}, res.Columns)
	assert.Empty(t, res.Rows)

	res, err = e.Explain(ctx, "SELECT * FROM items")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "active"}, res.Columns)

	_, err = e.Query(ctx, "SELECT missing FROM items")
	require.Error(t, err)
	assert.True(t, engine.IsPlanError(err))
	assert.ErrorIs(t, err, planner.ErrUnknownColumn)

	_, err = e.Query(ctx, "SELECT * FROM nowhere")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNoSuchTable)
}
