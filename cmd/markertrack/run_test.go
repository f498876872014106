package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markertrack/internal/config"
	"github.com/dshills/markertrack/internal/logging"
	"github.com/dshills/markertrack/internal/scenario"
)

const passing = "../../internal/scenario/testdata/greedy_end.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "markertrack dev (commit unknown, built unknown)\n", out)
}

func TestRunPassing(t *testing.T) {
	out, err := execute(t, "run", "--log-level", "error", passing)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "PASS greedy end then delete all (2 steps, 2 events"), out)
}

func TestRunFailingExpectation(t *testing.T) {
	path := writeScenario(t, `
name: wrong
length: 10
markers:
  - {name: m, start: 2, end: 4}
steps:
  - edits:
      - length: {at: 0, old: 0, new: 3}
    expect:
      m: [2, 4]
`)

	out, err := execute(t, "run", "--log-level", "error", path)
	require.ErrorIs(t, err, errScenariosFailed)
	assert.Contains(t, out, "FAIL wrong")
	assert.Contains(t, out, "m = [5:7), want [2:4)")
}

func TestRunJSON(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, "run", "--json", "--log-level", "error", passing, missing)
	require.ErrorIs(t, err, errScenariosFailed)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var rep scenario.Report
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rep))
	assert.Equal(t, "greedy end then delete all", rep.Scenario)
	assert.True(t, rep.Passed())
	assert.Nil(t, rep.Final["m"])

	var fl failureLine
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &fl))
	assert.Equal(t, missing, fl.Path)
	assert.NotEmpty(t, fl.Error)
}

func TestRunRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "run", "--log-level", "loud", passing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")

	_, err = execute(t, "run")
	require.Error(t, err)
}

func TestRunWithoutRebind(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "markertrack.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[cache]\nrebind = false\nmetrics = false\n"), 0o644))

	out, err := execute(t, "run", "-c", cfgPath, "--log-level", "error", passing)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
}

func TestMetricsServer(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: "warn", Output: &logs})

	ms, err := serveMetrics(config.MetricsConfig{Addr: "127.0.0.1:0", Path: "/metrics"}, logger)
	require.NoError(t, err)

	resp, err := http.Get("http://" + ms.addr.String() + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A connection with an unfinished request keeps the server busy.
	conn, err := net.Dial("tcp", ms.addr.String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("GET /metrics HTTP/1.1\r\n"))
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ms.shutdown(ctx)
	assert.Contains(t, logs.String(), "metrics server shutdown failed")
}
