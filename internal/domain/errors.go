package domain

import "fmt"

// ValidationError indicates malformed or out-of-range user input. It is
// recoverable at the calling boundary and carries the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError indicates a missing or inconsistent slab/cap/rate table
// for a requested year/regime/age-band combination. There is no safe
// substitute table, so the request fails rather than guessing.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Message)
}

// NewConfigurationError creates a ConfigurationError for a lookup key.
func NewConfigurationError(key, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Key: key, Message: fmt.Sprintf(format, args...)}
}
