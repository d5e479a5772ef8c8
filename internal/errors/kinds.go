package errors

import (
	stderrors "errors"
	"fmt"
)

// StorageError reports an I/O or schema failure in the persistent store.
// It is fatal to the triggering operation only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if stderrors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// ValidationError reports malformed caller input such as a bad date or time.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// AdvisoryKind distinguishes why an advisory call did not produce a result.
type AdvisoryKind string

const (
	AdvisoryProvider  AdvisoryKind = "provider"
	AdvisoryParse     AdvisoryKind = "parse"
	AdvisoryExhausted AdvisoryKind = "exhausted"
)

// AdvisoryError reports a failed or unparseable model call. It is always
// recoverable: callers render a safe default.
type AdvisoryError struct {
	Op   string
	Kind AdvisoryKind
	Err  error
}

func (e *AdvisoryError) Error() string {
	return fmt.Sprintf("advisory %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *AdvisoryError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or invalid startup setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

// Configuration builds a ConfigurationError.
func Configuration(key, reason string) error {
	return &ConfigurationError{Key: key, Reason: reason}
}

// KindOf names the taxonomy bucket of err for logging.
func KindOf(err error) string {
	var (
		se *StorageError
		ve *ValidationError
		ae *AdvisoryError
		ce *ConfigurationError
	)
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &se):
		return "storage"
	case stderrors.As(err, &ve):
		return "validation"
	case stderrors.As(err, &ae):
		return "advisory"
	case stderrors.As(err, &ce):
		return "configuration"
	default:
		return "internal"
	}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return stderrors.As(err, &se)
}
