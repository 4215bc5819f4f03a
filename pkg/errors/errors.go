package errors

import (
	stdErrors "errors"
	"fmt"
)

// ParseError represents a config or state file parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationKind classifies why alert form input was rejected.
type ValidationKind string

const (
	MissingRequiredField ValidationKind = "missing_required_field"
	InvalidNumericField  ValidationKind = "invalid_numeric_field"
	InvalidEnumValue     ValidationKind = "invalid_enum_value"
	InvalidConfigValue   ValidationKind = "invalid_config_value"
)

// ValidationError captures a rejected field. It never leaves the client.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Value   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(kind ValidationKind, field, value, message string, err error) error {
	return &ValidationError{Kind: kind, Field: field, Value: value, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SyncKind classifies failures talking to the alerts service.
type SyncKind string

const (
	Network     SyncKind = "network"
	ServerError SyncKind = "server_error"
	NotFound    SyncKind = "not_found"
)

// SyncError reports a failed list, create or delete call.
type SyncError struct {
	Kind    SyncKind
	Op      string
	Status  int
	Message string
	Err     error
}

// NewSyncError constructs a SyncError.
func NewSyncError(kind SyncKind, op string, status int, message string, err error) error {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &SyncError{Kind: kind, Op: op, Status: status, Message: message, Err: err}
}

func (e *SyncError) Error() string {
	if e == nil {
		return ""
	}
	if e.Status > 0 {
		return fmt.Sprintf("sync error [%s] %s: status %d: %s", e.Kind, e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("sync error [%s] %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap exposes the underlying error.
func (e *SyncError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsSyncKind reports whether err is a SyncError of the given kind.
func IsSyncKind(err error, kind SyncKind) bool {
	var syncErr *SyncError
	if !stdErrors.As(err, &syncErr) {
		return false
	}
	return syncErr.Kind == kind
}
