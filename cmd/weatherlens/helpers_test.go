package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/weatherlens/internal/alertrepo"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertserver"
	"github.com/alexisbeaulieu97/weatherlens/internal/config"
	"github.com/alexisbeaulieu97/weatherlens/internal/observability"
)

func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput("", args...)
}

func executeCommandWithInput(input string, args ...string) (string, error) {
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvLogLevel, "error")
	return home
}

// startAlertsService runs the dev alerts service on a fresh database and
// points the CLI at it.
func startAlertsService(t *testing.T) string {
	t.Helper()

	db, err := alertrepo.Open(filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	repo, err := alertrepo.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	metrics, reg := observability.NewMetricsForTesting()
	srv := httptest.NewServer(alertserver.New(repo, alertserver.Options{Metrics: metrics, Gatherer: reg}))
	t.Cleanup(srv.Close)

	t.Setenv(config.EnvAPI, srv.URL)
	return srv.URL
}
