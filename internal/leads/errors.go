package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrReadOnlyStore is returned for mutations against a read-only data
	// source (the embedded demo dataset).
	ErrReadOnlyStore = errors.New("lead store is read-only")
)
