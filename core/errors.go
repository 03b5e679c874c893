package core

import "fmt"

var (
	// ErrInvalidInput is returned when a request is rejected before any
	// provider or index call is attempted (empty query text, non-positive
	// limits, missing entity fields).
	ErrInvalidInput = fmt.Errorf("invalid input")

	// ErrProviderUnavailable is returned when the embedding provider or the
	// similarity index backend cannot be reached. The failing operation is
	// aborted as a whole; no partial results are produced.
	ErrProviderUnavailable = fmt.Errorf("provider unavailable")

	// ErrSchemaMissing is returned when a backing collection does not exist
	// and could not be created during initialization.
	ErrSchemaMissing = fmt.Errorf("schema missing")

	// ErrSynthesisFailed is returned when the synthesis capability cannot
	// produce an explanation for an otherwise successful retrieval. The
	// orchestrator returns no envelope in that case.
	ErrSynthesisFailed = fmt.Errorf("synthesis failed")

	// ErrMalformedRecord is returned when an index payload cannot be decoded
	// into its typed entity (missing required fields, wrong field types).
	ErrMalformedRecord = fmt.Errorf("malformed record")

	// ErrNotFound is returned when an entity for the given id does not exist
	// in the underlying store.
	ErrNotFound = fmt.Errorf("not found")
)
