package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/operator"
)

func TestRecordingSource_ScanAndClose(t *testing.T) {
	src := NewRecordingSource(map[string][]operator.Row{
		"t": {{"a": ir.IRInt(1)}, {"a": ir.IRInt(2)}},
	})

	cur, err := src.Scan(context.Background(), "t")
	require.NoError(t, err)

	row, ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ir.IRInt(1), row["a"])

	require.NoError(t, cur.Close())
	assert.Equal(t, 1, src.Scans())
	assert.Equal(t, 0, src.OpenCursors())

	events := src.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "scan", events[0].Action)
	assert.Equal(t, "close", events[1].Action)
	assert.Less(t, events[0].Seq, events[1].Seq)

	_, _, err = cur.Next()
	assert.Error(t, err)
}

func TestRecordingSource_EventsAcrossCursors(t *testing.T) {
	src := NewRecordingSource(map[string][]operator.Row{"a": {}, "b": {}})
	ctx := context.Background()

	first, err := src.Scan(ctx, "a")
	require.NoError(t, err)
	second, err := src.Scan(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, second.Close())
	require.NoError(t, first.Close())

	assert.Equal(t, []Event{
		{Seq: 1, Action: "scan", Table: "a"},
		{Seq: 2, Action: "scan", Table: "b"},
		{Seq: 3, Action: "close", Table: "b"},
		{Seq: 4, Action: "close", Table: "a"},
	}, src.Events())
}

func TestRecordingSource_ConcurrentScansGetDistinctSeqs(t *testing.T) {
	src := NewRecordingSource(map[string][]operator.Row{"t": {}})
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cur, err := src.Scan(context.Background(), "t")
			if err == nil {
				_ = cur.Close()
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, e := range src.Events() {
		seen[e.Seq] = true
	}
	assert.Len(t, seen, 2*workers)
	assert.Equal(t, 0, src.OpenCursors())
}

func TestRecordingSource_Injection(t *testing.T) {
	boom := errors.New("boom")
	src := NewRecordingSource(map[string][]operator.Row{"t": {{"a": ir.IRInt(1)}, {"a": ir.IRInt(2)}}})
	src.NextErr = boom
	src.FailAfter = 1

	cur, err := src.Scan(context.Background(), "t")
	require.NoError(t, err)
	_, ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)
	_, _, err = cur.Next()
	assert.ErrorIs(t, err, boom)

	_, err = src.Scan(context.Background(), "missing")
	assert.Error(t, err)

	src.ScanErr = boom
	_, err = src.Scan(context.Background(), "t")
	assert.ErrorIs(t, err, boom)
}

func TestFixedQueryID(t *testing.T) {
	assert.Equal(t, "q-1", NewFixedQueryID("q-1").Generate())
	assert.Equal(t, "test-query-default", NewFixedQueryID("").Generate())
}
