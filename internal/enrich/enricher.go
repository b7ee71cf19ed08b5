// Package enrich augments extracted recipe drafts with AI-derived
// attributes, constrained by a strict JSON schema. Any enrichment
// failure degrades to deterministic defaults; the enricher never
// returns an error.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/forkful/recipe-mcp-server/internal/ai"
	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

// Branch identifies which enrichment path produced the result, so
// callers and tests can tell model output from fallback defaults
// without inspecting field values.
type Branch int

const (
	// BranchModel means the AI response conformed to the schema and
	// was merged into the draft.
	BranchModel Branch = iota
	// BranchFallback means the AI call failed or its output was
	// unusable, and deterministic defaults were applied.
	BranchFallback
)

func (b Branch) String() string {
	if b == BranchModel {
		return "model"
	}
	return "fallback"
}

// ChatCompleter is the AI capability the enricher consumes.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, system, user string, schema ai.Schema) (string, error)
}

// Enricher derives structured recipe attributes from a draft.
type Enricher struct {
	chat   ChatCompleter
	logger *slog.Logger
}

// NewEnricher creates an enricher backed by the given chat capability.
func NewEnricher(chat ChatCompleter, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{chat: chat, logger: logger}
}

// enrichmentResponse mirrors EnrichmentSchema field for field.
type enrichmentResponse struct {
	Cuisine         string           `json:"cuisine"`
	Category        string           `json:"category"`
	DifficultyLevel int              `json:"difficulty_level"`
	Servings        int              `json:"servings"`
	PrepTime        string           `json:"prep_time"`
	CookTime        string           `json:"cook_time"`
	TotalTime       string           `json:"total_time"`
	Rating          float64          `json:"rating"`
	RatingCount     int              `json:"rating_count"`
	Relevance       recipe.Relevance `json:"relevance"`
	Tags            []string         `json:"tags"`
	NutritionNotes  string           `json:"nutrition_notes"`
	CookingTips     string           `json:"cooking_tips"`
}

// Enrich produces a fully populated Enriched recipe from a draft. A
// network failure, malformed JSON, or out-of-range response all resolve
// to the fallback branch; every required field has a value either way.
func (e *Enricher) Enrich(ctx context.Context, draft *recipe.Draft) (*recipe.Enriched, Branch) {
	resp, err := e.callModel(ctx, draft)
	if err != nil {
		e.logger.Warn("enrichment degraded, applying fallback defaults",
			"link", draft.Link, "error", err)
		return Fallback(draft), BranchFallback
	}

	enriched := &recipe.Enriched{
		Draft:           *draft,
		Cuisine:         resp.Cuisine,
		Category:        resp.Category,
		DifficultyLevel: resp.DifficultyLevel,
		Servings:        resp.Servings,
		PrepTime:        resp.PrepTime,
		CookTime:        resp.CookTime,
		TotalTime:       resp.TotalTime,
		Rating:          resp.Rating,
		RatingCount:     resp.RatingCount,
		Relevance:       resp.Relevance,
		Tags:            resp.Tags,
		NutritionNotes:  resp.NutritionNotes,
		CookingTips:     resp.CookingTips,
		Tools:           deriveTools(draft.Instructions),
		Keywords:        deriveKeywords(draft.Title, draft.Summary),
	}
	if enriched.Tags == nil {
		enriched.Tags = []string{}
	}
	return enriched, BranchModel
}

func (e *Enricher) callModel(ctx context.Context, draft *recipe.Draft) (*enrichmentResponse, error) {
	raw, err := e.chat.CompleteJSON(ctx, systemPrompt, buildPrompt(draft), EnrichmentSchema)
	if err != nil {
		return nil, err
	}

	var resp enrichmentResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("malformed enrichment response: %w", err)
	}
	if err := validateResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// validateResponse enforces the schema's numeric ranges. Strict schema
// mode should already guarantee these, but a violation must degrade to
// fallback rather than persist bad data.
func validateResponse(r *enrichmentResponse) error {
	switch {
	case r.Cuisine == "" || r.Category == "":
		return fmt.Errorf("schema violation: empty cuisine or category")
	case r.DifficultyLevel < 1 || r.DifficultyLevel > 10:
		return fmt.Errorf("schema violation: difficulty_level %d out of range", r.DifficultyLevel)
	case r.Servings < 1:
		return fmt.Errorf("schema violation: servings %d out of range", r.Servings)
	case r.Rating < 1.0 || r.Rating > 5.0:
		return fmt.Errorf("schema violation: rating %.2f out of range", r.Rating)
	case r.RatingCount < 1:
		return fmt.Errorf("schema violation: rating_count %d out of range", r.RatingCount)
	case !inUnitRange(r.Relevance.Family) || !inUnitRange(r.Relevance.Single) || !inUnitRange(r.Relevance.Health):
		return fmt.Errorf("schema violation: relevance scores out of range")
	}
	return nil
}

func inUnitRange(v float64) bool {
	return v >= 0.0 && v <= 1.0
}
