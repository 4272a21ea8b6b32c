package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/wsnlife/core/field"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useTempRunLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	t.Setenv("WSN_RUNLOG__BACKEND", "jsonl")
	t.Setenv("WSN_RUNLOG__PATH", path)
	return path
}

func TestRunPrintsSummary(t *testing.T) {
	useTempRunLog(t)
	out, err := execute(t, "run", "10", "1", "3", "15", "--seed", "4", "--iterations", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Live sensors: 3\n")
	assert.Contains(t, out, "Lifetime: ")
	assert.Contains(t, out, "Step 1: [(")
	assert.NotContains(t, out, "Interrupted")
}

func TestRunInvalidInputNeverSearches(t *testing.T) {
	path := useTempRunLog(t)
	for _, args := range [][]string{
		{"run", "10", "1", "abc", "15"},
		{"run", "10", "1", "-3", "15"},
		{"run", "10", "1", "3"},
	} {
		_, err := execute(t, args...)
		require.ErrorIs(t, err, field.ErrInvalidInput, "%v", args)
	}
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunFallsBackToConfiguredField(t *testing.T) {
	useTempRunLog(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
field:
  sensors: 1
  targets: 5
  size: 10
  range: 15
search:
  iterations: 20
`), 0o644))
	out, err := execute(t, "--config", cfgPath, "run", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Live sensors: 1\n")
	assert.Contains(t, out, "Lifetime: 60\n")
}

func TestRunWritesArtifacts(t *testing.T) {
	useTempRunLog(t)
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "res.json")
	csvPath := filepath.Join(dir, "trace.csv")
	htmlPath := filepath.Join(dir, "report.html")
	prefix := filepath.Join(dir, "plot")
	_, err := execute(t, "run", "50", "3", "30", "25", "--seed", "9", "--iterations", "30", "--workers", "2",
		"--json", jsonPath, "--csv", csvPath, "--html", htmlPath, "--png", prefix)
	require.NoError(t, err)
	for _, p := range []string{jsonPath, csvPath, htmlPath, prefix + "-field.png", prefix + "-activity.png"} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.NotZero(t, info.Size(), p)
	}
	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "step,start,end,sensor_x,sensor_y"))
}

func TestRunsListFilters(t *testing.T) {
	useTempRunLog(t)
	_, err := execute(t, "run", "10", "5", "1", "15", "--seed", "2", "--iterations", "10")
	require.NoError(t, err)
	_, err = execute(t, "run", "100", "1", "2", "1", "--seed", "3", "--iterations", "10")
	require.NoError(t, err)

	out, err := execute(t, "runs", "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))

	out, err = execute(t, "runs", "ls", "--min-lifetime", "60", "--since", "1h")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)

	out, err = execute(t, "runs", "ls", "--limit", "1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}
