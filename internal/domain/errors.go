package domain

import "errors"

var (
	// ErrExtraction signals that the model output for job extraction was
	// absent or unparsable. Fatal for the whole pipeline run.
	ErrExtraction = errors.New("job extraction failed")
	// ErrCatalogUnavailable signals that the portfolio catalog is not loaded
	// or empty. Fatal for the whole pipeline run.
	ErrCatalogUnavailable = errors.New("portfolio catalog unavailable")
	// ErrComposition signals an empty or invalid generated email. Isolated
	// to the affected posting.
	ErrComposition = errors.New("email composition failed")
	// ErrLLMProviderError signals a completion or embedding provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch in the index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
