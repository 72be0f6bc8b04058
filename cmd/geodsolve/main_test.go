package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geodsolve(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr strings.Builder
	code := run(context.Background(), args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInverseMode(t *testing.T) {
	code, out, _ := geodsolve(t, "0 0 0 1\n", "-i")
	assert.Equal(t, 0, code)
	assert.Equal(t, "90.00000000 90.00000000 111319.491\n", out)
}

func TestLineModePrecision(t *testing.T) {
	code, out, _ := geodsolve(t, "0\n", "-l", "0 0 90", "-p", "0")
	assert.Equal(t, 0, code)
	assert.Equal(t, "0.00000 0.00000 90.00000\n", out)
}

func TestFailedRecordExitStatus(t *testing.T) {
	code, out, _ := geodsolve(t, "0 0 0 1\n100 0 0 1\n", "-i")
	assert.Equal(t, 1, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "ERROR: "), lines[1])
}

func TestUsage(t *testing.T) {
	code, _, errOut := geodsolve(t, "", "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "Usage: geodsolve")

	code, _, _ = geodsolve(t, "", "--bogus")
	assert.Equal(t, 1, code)

	code, _, errOut = geodsolve(t, "", "extra")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unexpected argument "extra"`)

	code, _, errOut = geodsolve(t, "", "-e", "-1 300")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "geodsolve:")
}

func TestMetricsAndLogFiles(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "geodsolve.prom")
	logFile := filepath.Join(dir, "geodsolve.log")
	code, out, _ := geodsolve(t, "-30 0 29.9 179.8\n-30 0 29.9 179.8\n",
		"-i", "--metrics-file", metrics, "--log-file", logFile, "--log-level", "debug",
		"--log-format", "json", "--cache-mb", "1", "--workers", "1")
	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `geodsolve_records_total{mode="inverse",status="ok"} 2`)
	assert.Contains(t, string(data), `geodsolve_cache_lookups_total{result="hit"} 1`)

	logs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"msg":"batch complete"`)
}
