package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger wraps zerolog with the fields WeatherLens components log by.
// A nil *Logger is valid and discards everything.
type Logger struct {
	base zerolog.Logger
}

// New builds a Logger writing JSON lines, or console output when
// HumanReadable is set, to Writer (stderr by default).
func New(opts Options) (*Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if opts.Writer != nil {
		out = opts.Writer
	}
	if opts.HumanReadable {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return &Logger{base: zerolog.New(out).Level(level).With().Timestamp().Logger()}, nil
}

// parseLevel accepts the config spellings plus "warning"; blank means info.
func parseLevel(raw string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", raw)
	}
	return level, nil
}

// Nop returns a logger that writes nothing.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// OpenFile opens (creating if needed) an append-only log file for programs
// that cannot write to the terminal, such as the dashboard.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With().Fields(fields).Logger()}
}

// Component tags every entry with the emitting component.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With().Str("component", name).Logger()}
}

// Rule scopes entries to a city and, when id is non-empty, one alert rule.
func (l *Logger) Rule(city, id string) *Logger {
	if l == nil {
		return nil
	}
	ctx := l.base.With().Str("city", city)
	if id != "" {
		ctx = ctx.Str("alert_id", id)
	}
	return &Logger{base: ctx.Logger()}
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(msg)
}

// Error writes err under "error". Sync and validation failures also get
// their kind, and the HTTP status or field, as separate fields.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}

	var syncErr *wlerrors.SyncError
	var validationErr *wlerrors.ValidationError
	switch {
	case errors.As(err, &syncErr):
		event = event.Str("sync_kind", string(syncErr.Kind)).Str("op", syncErr.Op)
		if syncErr.Status > 0 {
			event = event.Int("status", syncErr.Status)
		}
	case errors.As(err, &validationErr):
		event = event.Str("validation_kind", string(validationErr.Kind)).Str("field", validationErr.Field)
	}
	event.Msg(msg)
}
