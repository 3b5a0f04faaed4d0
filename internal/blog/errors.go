package blog

import "errors"

var (
	// ErrPostNotFound is returned when no post matches the given id or
	// slug. All data sources share this miss contract.
	ErrPostNotFound = errors.New("blog post not found")

	// ErrSlugTaken is returned when creating a post with an existing slug.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrReadOnlyStore is returned for mutations against a read-only data
	// source (the embedded demo dataset).
	ErrReadOnlyStore = errors.New("blog store is read-only")
)
