// Package apperrors defines the error categories the HTTP handlers map to
// status codes. Everything else stays a wrapped error and surfaces as an
// unexpected internal failure.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups whose key has no matching record. Handlers map
// it to HTTP 404; wrap it with fmt.Errorf and %w.
var ErrNotFound = errors.New("record not found")

// ConfigurationError indicates a required deployment-time setting is absent.
// This is a deployment defect, not a transient condition, and is never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Setting)
}

// ValidationError indicates a required request element is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid request: %s", e.Field)
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// Category returns a short label for logging: not_found, configuration,
// validation, or unexpected.
func Category(err error) string {
	var cfgErr *ConfigurationError
	var valErr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &valErr):
		return "validation"
	default:
		return "unexpected"
	}
}
