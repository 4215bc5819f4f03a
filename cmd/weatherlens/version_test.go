package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/weatherlens/internal/config"
)

func TestVersionReportsBuildAndService(t *testing.T) {
	home := setupHome(t)
	t.Setenv(config.EnvAPI, "http://alerts.internal:9000")

	saved := [3]string{version, commit, date}
	t.Cleanup(func() { version, commit, date = saved[0], saved[1], saved[2] })
	version, commit, date = "1.2.3", "abcdef1", "2025-10-03"

	stdout, err := executeCommand("version")
	require.NoError(t, err)

	require.Contains(t, stdout, "WeatherLens 1.2.3")
	require.Contains(t, stdout, "commit: abcdef1")
	require.Contains(t, stdout, "built: 2025-10-03")
	require.Contains(t, stdout, filepath.Join(home, ".weatherlens", "config.yaml")+" (not found, using defaults)")
	require.Contains(t, stdout, "api:    http://alerts.internal:9000")
	require.Contains(t, stdout, "(default Delhi)")
}

func TestVersionReadsConfigFile(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities: [Pune, Mumbai]\ndefault_city: Pune\n"), 0o644))

	stdout, err := executeCommand("version", "--config", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "config: "+path+"\n")
	require.Contains(t, stdout, "cities: Pune, Mumbai (default Pune)")
}

func TestVersionRejectsBadConfig(t *testing.T) {
	setupHome(t)

	_, err := executeCommand("version", "--config", filepath.Join("testdata", "bad.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading config")
}
