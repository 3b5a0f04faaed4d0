package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned before any network attempt when the
	// hosted backend base URL or token is absent or malformed.
	ErrNotConfigured = errors.New("backend not configured")

	// ErrSchemaMissing is returned when the remote collection does not
	// exist yet (setup incomplete).
	ErrSchemaMissing = errors.New("backend schema missing")

	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")

	// ErrAmbiguous is returned when a unique-key lookup matches more than
	// one record.
	ErrAmbiguous = errors.New("lookup matched more than one record")
)

// Error describes a failed remote operation.
type Error struct {
	Op         string
	Collection string
	Status     int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: %s %s failed: status %d code %s: %s", e.Op, e.Collection, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend: %s %s failed: status %d: %s", e.Op, e.Collection, e.Status, e.Message)
}

// Unwrap lets callers distinguish a missing collection from a generic
// remote failure with errors.Is.
func (e *Error) Unwrap() error {
	if e.schemaMissing() {
		return ErrSchemaMissing
	}
	return nil
}

func (e *Error) schemaMissing() bool {
	// 42P01 is undefined_table; PGRST205 is the REST layer's variant.
	return e.Code == "42P01" || e.Code == "PGRST205"
}

// Remediation returns operator guidance for the failure.
func (e *Error) Remediation() string {
	if e.schemaMissing() {
		return fmt.Sprintf("collection %q does not exist yet; run the schema setup for it", e.Collection)
	}
	return "the hosted backend rejected the request; verify credentials and retry"
}
