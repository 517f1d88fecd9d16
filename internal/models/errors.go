package models

import (
	"errors"
	"fmt"
)

// ConfigError reports missing or invalid credentials, URL or table settings.
// It is raised before any network call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// ConnectionError reports an invalid table handle or an unreachable service
// while fetching the schema
type ConnectionError struct {
	TableID int
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to table %d failed: %v", e.TableID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaError is a structural mismatch between a record and the table schema
type SchemaError struct {
	Reason string
}

func NewSchemaError(reason string) *SchemaError {
	return &SchemaError{Reason: reason}
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Reason
}

// ValidationError is a record value that cannot be translated to wire format
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// IntegrityError signals remote data violating primary-key uniqueness
type IntegrityError struct {
	Reason  string
	Matches int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: %s (%d rows matched)", e.Reason, e.Matches)
}

// TransientServiceError is a network failure or server-side error expected
// to recover on retry
type TransientServiceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: transient failure (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientServiceError) Unwrap() error { return e.Err }

// ServiceError is a non-transient rejection from the remote service (4xx)
type ServiceError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: service rejected request (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// IsTransient reports whether err is worth retrying
func IsTransient(err error) bool {
	var te *TransientServiceError
	return errors.As(err, &te)
}
