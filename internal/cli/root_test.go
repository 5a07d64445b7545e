package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcore/internal/config"
)

const peopleFixture = `
tables: people: {
	columns: [
		{name: "name", type: "TEXT"},
		{name: "age", type: "INTEGER"},
	]
	rows: [
		{name: "ada", age: 36},
		{name: "bob", age: 17},
		{name: "dee", age: 21},
	]
}
`

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seededDB writes the people fixture, loads it into a fresh database and
// returns the database path.
func seededDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	fixture := filepath.Join(dir, "people.cue")
	require.NoError(t, os.WriteFile(fixture, []byte(peopleFixture), 0o644))

	db := filepath.Join(dir, "people.db")
	_, err := execute(t, "load", "--db", db, fixture)
	require.NoError(t, err)
	return db
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "qcore", cmd.Use)
	assert.Contains(t, cmd.Long, "SELECT")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"query", "explain", "load", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("db"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", "x.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestMissingArgs(t *testing.T) {
	for _, name := range []string{"query", "explain", "load", "validate", "test"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "arg")
		})
	}
}

func TestConfigFile(t *testing.T) {
	db := seededDB(t)
	cfgPath := filepath.Join(t.TempDir(), "qcore.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database: "+db+"\nmax_result_rows: 1\n"), 0o644))

	out, err := execute(t, "--config", cfgPath, "query", "SELECT * FROM people")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [QUOTA_EXCEEDED]")
}

func TestConfigFile_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "qcore.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_format: xml\n"), 0o644))

	out, err := execute(t, "--config", cfgPath, "query", "SELECT * FROM people")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_CONFIG]")
}

func TestLogger_FormatIgnoresCase(t *testing.T) {
	opts := &RootOptions{}
	var buf bytes.Buffer

	cfg := config.Default()
	cfg.LogFormat = "JSON"
	opts.logger(cfg, &buf).Info("opened", "path", "x.db")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
	assert.Contains(t, buf.String(), `"path":"x.db"`)

	buf.Reset()
	cfg.LogFormat = "Text"
	opts.logger(cfg, &buf).Info("opened", "path", "x.db")
	assert.Contains(t, buf.String(), "path=x.db")
}

func TestLogger_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()

	(&RootOptions{}).logger(cfg, &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	(&RootOptions{Verbose: true}).logger(cfg, &buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
