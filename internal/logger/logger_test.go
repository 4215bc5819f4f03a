package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"city": "Delhi", "seq": 3})
	log.Info("alerts loaded")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "alerts loaded", entry["message"])
	require.Equal(t, "Delhi", entry["city"])
	require.Equal(t, float64(3), entry["seq"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log.Debug("this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestLoggerErrorIncludesContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log = log.Component("alertstore")
	log.Error(errors.New("boom"), "delete failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "delete failed", entry["message"])
	require.Equal(t, "alertstore", entry["component"])
	require.Equal(t, "boom", entry["error"])
}

func TestNilAndNopLoggersAreSafe(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger
	require.Nil(t, nilLogger.WithFields(map[string]any{"a": 1}))
	nilLogger.Info("ignored")
	nilLogger.Error(errors.New("ignored"), "ignored")

	Nop().Component("x").Warn("ignored")
}

func TestOpenFileCreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "weatherlens.log")
	file, err := OpenFile(path)
	require.NoError(t, err)

	log, err := New(Options{Writer: file})
	require.NoError(t, err)
	log.Info("dashboard started")
	require.NoError(t, file.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "dashboard started")
}

func TestLoggerRuleScopesEntries(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Writer: buf})
	require.NoError(t, err)

	log.Rule("Delhi", "r1").Info("alert created")
	log.Rule("Mumbai", "").Info("alerts loaded")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "Delhi", first["city"])
	require.Equal(t, "r1", first["alert_id"])
	require.Equal(t, "Mumbai", second["city"])
	require.NotContains(t, second, "alert_id")
}

func TestLoggerErrorDescribesTypedErrors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Writer: buf})
	require.NoError(t, err)

	log.Error(wlerrors.NewSyncError(wlerrors.ServerError, "create", 503, "unavailable", nil), "create alert failed")
	log.Error(wlerrors.NewValidationError(wlerrors.MissingRequiredField, "temperature", "", "temperature is required", nil), "rejected")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var syncEntry, validationEntry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &syncEntry))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &validationEntry))
	require.Equal(t, "server_error", syncEntry["sync_kind"])
	require.Equal(t, "create", syncEntry["op"])
	require.Equal(t, float64(503), syncEntry["status"])
	require.Equal(t, "missing_required_field", validationEntry["validation_kind"])
	require.Equal(t, "temperature", validationEntry["field"])
}

func TestLoggerLevelAliases(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: " Warning ", Writer: buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
