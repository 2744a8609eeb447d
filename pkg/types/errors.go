package types

import "errors"

// Retrieval errors
var (
	// ErrRetrieverUnavailable marks an embedding-provider or vector-index
	// failure. The engine degrades to the surviving retriever for the
	// affected request.
	ErrRetrieverUnavailable = errors.New("retriever unavailable")

	// ErrAllRetrieversUnavailable is returned when no retriever could
	// produce a result set for a request.
	ErrAllRetrieversUnavailable = errors.New("all retrievers unavailable")

	// ErrInvalidConfig is returned at engine construction for invalid
	// configuration (weights not summing to 1.0, non-positive fetch sizes).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyQuery is returned when a retrieval request has no query text.
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// Domain errors for type validation
var (
	ErrMissingPatternID = errors.New("pattern ID is required")
	ErrInvalidRank      = errors.New("rank must be >= 1")
	ErrInvalidScore     = errors.New("score must be between 0 and 1")
	ErrNegativeRawScore = errors.New("raw score must be non-negative")
	ErrUnknownRetriever = errors.New("unknown retriever kind")
)
