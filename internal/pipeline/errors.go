package pipeline

import "errors"

// Failure taxonomy for pipeline operations. EnrichmentDegraded has no
// error: it is absorbed by the fallback branch and only logged.
var (
	// ErrExtractionFailed: no recipe markup found or the fetch failed.
	// Surfaced to the caller, never retried.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmbeddingFailed: the embedding capability failed. Fatal to the
	// current request; there is no fallback vector.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDocumentPersistFailed: the document write failed. Fatal; the
	// vector write is never attempted.
	ErrDocumentPersistFailed = errors.New("document persist failed")

	// ErrVectorPersistFailed: the vector write failed after the
	// document write succeeded. Reported as partial success: the
	// document stays retrievable by id but not by similarity.
	ErrVectorPersistFailed = errors.New("vector persist failed")

	// ErrRecipeNotFound: no document exists under the given id.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// Stage names the steps of an ingestion request, in order. A failure
// carries the stage it occurred in; stages already committed are never
// rolled back.
type Stage string

const (
	StageFetching           Stage = "fetching"
	StageEnriching          Stage = "enriching"
	StageSummarizing        Stage = "summarizing"
	StagePersistingDocument Stage = "persisting_document"
	StagePersistingVector   Stage = "persisting_vector"
	StageDone               Stage = "done"
)
