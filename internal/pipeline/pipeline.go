// Package pipeline orchestrates recipe ingestion and retrieval:
// extract, enrich, summarize, persist to the document store, then index
// the embedding in the vector store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/forkful/recipe-mcp-server/internal/docstore"
	"github.com/forkful/recipe-mcp-server/internal/enrich"
	"github.com/forkful/recipe-mcp-server/internal/recipe"
	"github.com/forkful/recipe-mcp-server/internal/vecstore"
)

// SearchLimit caps every similarity search.
const SearchLimit = 5

// Extractor turns a URL into a raw recipe draft.
type Extractor interface {
	Extract(ctx context.Context, url string) (*recipe.Draft, error)
}

// Enricher augments a draft; it degrades to fallback defaults instead
// of failing.
type Enricher interface {
	Enrich(ctx context.Context, draft *recipe.Draft) (*recipe.Enriched, enrich.Branch)
}

// PromptGenerator produces the canonical embedding prompt; it degrades
// to a deterministic concatenation instead of failing.
type PromptGenerator interface {
	Generate(ctx context.Context, r *recipe.Enriched) string
}

// Embedder turns text into a fixed-length vector. Failure is fatal to
// the current request.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// DocumentStore is the canonical record store, upserted by link.
type DocumentStore interface {
	UpsertByLink(ctx context.Context, rec *docstore.Record) (string, error)
	GetByID(ctx context.Context, id string) (*docstore.Record, error)
}

// VectorIndex is the similarity store keyed by mapped integer identity.
type VectorIndex interface {
	Upsert(ctx context.Context, p *vecstore.Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]*vecstore.ScoredRecipe, error)
}

// Pipeline sequences ingestion and answers retrieval requests. All
// collaborators are injected so tests can substitute doubles; the
// pipeline itself holds no mutable state and is safe for concurrent
// use.
type Pipeline struct {
	extractor Extractor
	enricher  Enricher
	prompts   PromptGenerator
	embedder  Embedder
	docs      DocumentStore
	vectors   VectorIndex
	logger    *slog.Logger
}

// New creates a pipeline with the given collaborators.
func New(
	extractor Extractor,
	enricher Enricher,
	prompts PromptGenerator,
	embedder Embedder,
	docs DocumentStore,
	vectors VectorIndex,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		enricher:  enricher,
		prompts:   prompts,
		embedder:  embedder,
		docs:      docs,
		vectors:   vectors,
		logger:    logger,
	}
}

// IngestResult reports the outcome of ExtractAndStore. VectorStored is
// false on partial success: the document was written but the vector
// was not, so the recipe is retrievable by id but not by similarity.
type IngestResult struct {
	RecipeID     string
	Title        string
	Summary      string
	URL          string
	VectorStored bool
	Enrichment   enrich.Branch
}

// ExtractAndStore runs the full ingestion chain for a URL. Each stage
// is a single attempt; a stage failure aborts the chain without undoing
// stages already committed. Re-ingesting the same URL is idempotent at
// the document layer: the record is replaced under its existing id.
func (p *Pipeline) ExtractAndStore(ctx context.Context, url string) (*IngestResult, error) {
	log := p.logger.With("ingest_id", uuid.NewString(), "url", url)

	// Fetching: a failure here aborts with no side effects.
	draft, err := p.extractor.Extract(ctx, url)
	if err != nil {
		log.Warn("pipeline aborted", "stage", StageFetching, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	// Enriching never fails; the branch records whether the model or
	// the fallback defaults populated the record.
	enriched, branch := p.enricher.Enrich(ctx, draft)
	log.Info("recipe enriched", "stage", StageEnriching, "branch", branch.String(), "title", enriched.Title)

	// Summarizing never fails either; the prompt is the only text ever
	// embedded for this recipe.
	prompt := p.prompts.Generate(ctx, enriched)

	docID, err := p.docs.UpsertByLink(ctx, docstore.NewRecord(enriched, prompt))
	if err != nil {
		log.Error("pipeline aborted", "stage", StagePersistingDocument, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDocumentPersistFailed, err)
	}

	vector, err := p.embedder.EmbedQuery(ctx, prompt)
	if err != nil {
		log.Error("pipeline aborted", "stage", StagePersistingVector, "recipe_id", docID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	result := &IngestResult{
		RecipeID:   docID,
		Title:      enriched.Title,
		Summary:    enriched.Draft.Summary,
		URL:        url,
		Enrichment: branch,
	}

	if err := p.vectors.Upsert(ctx, &vecstore.Point{DocID: docID, Vector: vector, Recipe: enriched}); err != nil {
		// Partial success: the document stays, searchable by id only,
		// until the next successful ingestion of this link converges
		// the stores.
		log.Error("vector persist failed, document kept",
			"stage", StagePersistingVector, "recipe_id", docID, "error", err)
		return result, nil
	}

	result.VectorStored = true
	log.Info("recipe stored", "stage", StageDone, "recipe_id", docID)
	return result, nil
}

// Search embeds the raw query text directly (the embedding-prompt path
// is not used for free-text search) and returns up to SearchLimit hits
// by descending score. An unavailable index yields an empty list, not
// an error, matching "no results" semantics.
func (p *Pipeline) Search(ctx context.Context, query string) ([]recipe.SearchHit, error) {
	vector, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	scored, err := p.vectors.Search(ctx, vector, SearchLimit)
	if err != nil {
		p.logger.Warn("search failed, returning no results", "query", query, "error", err)
		return []recipe.SearchHit{}, nil
	}

	return hits(scored, ""), nil
}

// Similar finds recipes close to a stored recipe. The stored embedding
// prompt is reused when present so repeated lookups stay stable; legacy
// records without one fall back to title+summary+ingredients. The
// source recipe itself is excluded from the results.
func (p *Pipeline) Similar(ctx context.Context, recipeID string) ([]recipe.SearchHit, error) {
	rec, err := p.docs.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, docstore.ErrRecipeNotFound) || errors.Is(err, docstore.ErrInvalidID) {
			p.logger.Warn("similar lookup for unknown recipe", "recipe_id", recipeID)
			return []recipe.SearchHit{}, nil
		}
		return nil, err
	}

	text := rec.EmbeddingPrompt
	if text == "" {
		text = fmt.Sprintf("%s %s %s", rec.Title, rec.Summary, strings.Join(rec.Ingredients, " "))
	}

	vector, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	scored, err := p.vectors.Search(ctx, vector, SearchLimit)
	if err != nil {
		p.logger.Warn("search failed, returning no results", "recipe_id", recipeID, "error", err)
		return []recipe.SearchHit{}, nil
	}

	return hits(scored, recipeID), nil
}

// SimilarFromURL extracts and enriches a recipe ad hoc, without
// persisting anything, purely to obtain a query vector.
func (p *Pipeline) SimilarFromURL(ctx context.Context, url string) ([]recipe.SearchHit, error) {
	draft, err := p.extractor.Extract(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	enriched, _ := p.enricher.Enrich(ctx, draft)
	prompt := p.prompts.Generate(ctx, enriched)

	vector, err := p.embedder.EmbedQuery(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	scored, err := p.vectors.Search(ctx, vector, SearchLimit)
	if err != nil {
		p.logger.Warn("search failed, returning no results", "url", url, "error", err)
		return []recipe.SearchHit{}, nil
	}

	return hits(scored, ""), nil
}

// GetByID retrieves the full canonical record.
func (p *Pipeline) GetByID(ctx context.Context, recipeID string) (*docstore.Record, error) {
	rec, err := p.docs.GetByID(ctx, recipeID)
	if errors.Is(err, docstore.ErrRecipeNotFound) || errors.Is(err, docstore.ErrInvalidID) {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// hits converts scored results, dropping any whose back-reference
// equals excludeID.
func hits(scored []*vecstore.ScoredRecipe, excludeID string) []recipe.SearchHit {
	out := make([]recipe.SearchHit, 0, len(scored))
	for _, s := range scored {
		if excludeID != "" && s.DocID == excludeID {
			continue
		}
		out = append(out, recipe.SearchHit{
			ID:      s.DocID,
			Title:   s.Title,
			Summary: s.Summary,
			Link:    s.Link,
			Score:   s.Score,
		})
	}
	return out
}
