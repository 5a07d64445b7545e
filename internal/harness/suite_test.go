package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	files, err := ExpandPaths([]string{dir, filepath.Join(dir, "b.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
	}, files)
}

func TestExpandPaths_Missing(t *testing.T) {
	_, err := ExpandPaths([]string{"testdata/none"})
	var nf *ScenarioNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "testdata/none", nf.Path)
}

func TestRunFiles(t *testing.T) {
	result, err := RunFiles(context.Background(), []string{"testdata/scenarios"})
	require.NoError(t, err)
	assert.True(t, result.OK(), "failures: %+v", result.Failures)
	assert.Equal(t, result.Total, result.Passed)
	assert.Positive(t, result.Total)
}

func TestRunFiles_CountsFailures(t *testing.T) {
	dir := t.TempDir()
	fixture, err := filepath.Abs(fixturePath)
	require.NoError(t, err)

	good := "name: good\nfixture: " + fixture + "\nsql: SELECT * FROM people\nexpect:\n  row_count: 5\n"
	bad := "name: bad\nfixture: " + fixture + "\nsql: SELECT * FROM people\nexpect:\n  row_count: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1-good.yaml"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2-bad.yaml"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3-broken.yaml"), []byte("name: [\n"), 0o644))

	result, err := RunFiles(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Scenarios, 3)
	assert.True(t, result.Scenarios[0].Pass)
	assert.Equal(t, "good", result.Scenarios[0].Name)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "bad", result.Failures[0].Name)
	assert.Contains(t, result.Failures[1].Errors[0], "failed to load scenario")
}
