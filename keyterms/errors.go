package keyterms

import "errors"

var (
	// ErrInvalidInput marks documents that are empty, not valid UTF-8 text,
	// or larger than the configured maximum.
	ErrInvalidInput = errors.New("keyterms: invalid input")

	// ErrModelUnavailable marks a failure to load or reach the embedding
	// model. It is fatal for the process and surfaces from the constructor,
	// never as a per-request transient.
	ErrModelUnavailable = errors.New("keyterms: embedding model unavailable")

	// ErrNoKeywords is returned when every fallback tier produced nothing,
	// which is only possible for documents that are empty after
	// normalization.
	ErrNoKeywords = errors.New("keyterms: no keywords extracted")
)
