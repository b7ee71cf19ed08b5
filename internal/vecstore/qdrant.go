// Package vecstore indexes recipe embeddings in Qdrant for
// nearest-neighbor search, keyed by an integer identity derived from
// the document-store primary key.
package vecstore

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"

	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

// Index wraps the Qdrant client with connection management and health
// checks.
type Index struct {
	client *qdrant.Client
	host   string
	port   int
}

// NewIndex creates a new Qdrant client with health validation.
// It performs a health check with retry on startup and fails fast if
// Qdrant is unreachable. apiKey may be empty for unauthenticated
// deployments.
func NewIndex(host string, port int, apiKey string) (*Index, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	index := &Index{
		client: client,
		host:   host,
		port:   port,
	}

	ctx := context.Background()
	if err := index.healthCheckWithRetry(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return index, nil
}

// healthCheckWithRetry performs health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (x *Index) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		return x.Health(ctx)
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// Health performs a single health check against Qdrant.
func (x *Index) Health(ctx context.Context) error {
	result, err := x.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}

	return nil
}

// EnsureCollection ensures the recipes collection exists with 1536-dim
// cosine-distance vectors. Idempotent - safe to call multiple times.
func (x *Index) EnsureCollection(ctx context.Context) error {
	collections, err := x.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range collections {
		if name == CollectionName {
			return nil
		}
	}

	err = x.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// Close closes the Qdrant client connection.
func (x *Index) Close() error {
	if x.client != nil {
		return x.client.Close()
	}
	return nil
}

// Upsert stores a recipe point under PointID(p.DocID). The write is a
// single attempt: a failure surfaces to the caller, which reports the
// resulting document/vector divergence rather than retrying.
func (x *Index) Upsert(ctx context.Context, p *Point) error {
	if len(p.Vector) != VectorDimension {
		return fmt.Errorf("%w: vector has %d dimensions, expected %d",
			ErrDimensionMismatch, len(p.Vector), VectorDimension)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(PointID(p.DocID)),
		Vectors: qdrant.NewVectors(p.Vector...),
		Payload: qdrant.NewValueMap(buildPayload(p.DocID, p.Recipe)),
	}

	_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: CollectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point %d: %w", PointID(p.DocID), err)
	}

	return nil
}

// Search performs vector similarity search and returns up to limit
// recipes ordered by descending cosine similarity. No minimum score is
// applied; callers post-filter (e.g. excluding the query's own source
// document).
func (x *Index) Search(ctx context.Context, vector []float32, limit int) ([]*ScoredRecipe, error) {
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), VectorDimension)
	}

	results, err := x.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}

	recipes := make([]*ScoredRecipe, 0, len(results))
	for _, result := range results {
		scored := scoredFromPayload(result.Payload)
		scored.Score = float64(result.Score)
		recipes = append(recipes, scored)
	}

	return recipes, nil
}

// GetByID retrieves a single point by its integer identity.
// Returns ErrPointNotFound if the point doesn't exist.
func (x *Index) GetByID(ctx context.Context, id uint64) (*ScoredRecipe, error) {
	result, err := x.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: CollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrPointNotFound
	}

	return scoredFromPayload(result[0].Payload), nil
}

// buildPayload denormalizes the enriched recipe into the point payload,
// including the document-store back-reference under "mongo_id".
func buildPayload(docID string, r *recipe.Enriched) map[string]any {
	return map[string]any{
		"mongo_id":         docID,
		"title":            r.Title,
		"summary":          r.Draft.Summary,
		"link":             r.Link,
		"source":           r.Source,
		"image_url":        r.ImageURL,
		"cuisine":          r.Cuisine,
		"category":         r.Category,
		"difficulty_level": r.DifficultyLevel,
		"servings":         r.Servings,
		"prep_time":        r.PrepTime,
		"cook_time":        r.CookTime,
		"total_time":       r.TotalTime,
		"rating":           r.Rating,
		"rating_count":     r.RatingCount,
		"relevance": map[string]any{
			"family": r.Relevance.Family,
			"single": r.Relevance.Single,
			"health": r.Relevance.Health,
		},
		"tags":            toAnySlice(r.Tags),
		"ingredients":     toAnySlice(r.Ingredients),
		"tools":           toAnySlice(r.Tools),
		"keywords":        toAnySlice(r.Keywords),
		"nutrition_notes": r.NutritionNotes,
		"cooking_tips":    r.CookingTips,
		"indexed_at":      time.Now().UTC().Format(time.RFC3339),
	}
}

func scoredFromPayload(payload map[string]*qdrant.Value) *ScoredRecipe {
	return &ScoredRecipe{
		DocID:   payload["mongo_id"].GetStringValue(),
		Title:   payload["title"].GetStringValue(),
		Summary: payload["summary"].GetStringValue(),
		Link:    payload["link"].GetStringValue(),
	}
}

// toAnySlice widens a string slice for qdrant.NewValueMap, which only
// converts []interface{} lists.
func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
