// Package summary generates the embedding prompt: the canonical short
// text that is the only input ever embedded for a recipe. Feeding every
// producer's output through the same summary keeps identical recipes at
// the same point in vector space regardless of who ingested them.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

const systemPrompt = `You write short recipe summaries for semantic search. ` +
	`Write a 2-3 sentence, conversational, non-repetitive summary that highlights ` +
	`the dish type, cooking method, what occasion it fits, its health profile, ` +
	`how difficult it is, and who it suits best. Do not list ingredients verbatim ` +
	`and do not repeat the title more than once.`

// summaryTemperature keeps repeated generations for the same recipe
// close to identical.
const summaryTemperature = 0.2

// Completer is the AI capability the generator consumes.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Generator produces embedding prompts for enriched recipes.
type Generator struct {
	chat   Completer
	logger *slog.Logger
}

// NewGenerator creates a generator backed by the given chat capability.
func NewGenerator(chat Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{chat: chat, logger: logger}
}

// Generate returns the embedding prompt for an enriched recipe. On AI
// failure it degrades to FallbackPrompt; it never returns an error.
func (g *Generator) Generate(ctx context.Context, r *recipe.Enriched) string {
	text, err := g.chat.Complete(ctx, systemPrompt, BuildUserMessage(r), summaryTemperature)
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Warn("summary generation degraded, using deterministic fallback",
			"link", r.Link, "error", err)
		return FallbackPrompt(r)
	}
	return strings.TrimSpace(text)
}

// BuildUserMessage renders the enriched recipe into the fixed field
// template. The template is deterministic: the same recipe always
// produces the same message, which with a deterministic model yields a
// stable prompt.
func BuildUserMessage(r *recipe.Enriched) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", r.Title)
	fmt.Fprintf(&b, "Original summary: %s\n", r.Draft.Summary)
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Cuisine: %s\n", r.Cuisine)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(r.Ingredients, ", "))
	fmt.Fprintf(&b, "Instructions: %s\n", strings.Join(r.Instructions, " "))
	fmt.Fprintf(&b, "Difficulty: %d/10\n", r.DifficultyLevel)
	fmt.Fprintf(&b, "Prep time: %s, cook time: %s\n", r.PrepTime, r.CookTime)
	fmt.Fprintf(&b, "Relevance scores: family %.1f, single %.1f, health %.1f\n",
		r.Relevance.Family, r.Relevance.Single, r.Relevance.Health)
	fmt.Fprintf(&b, "Nutrition: %s\n", r.NutritionNotes)
	return b.String()
}

// FallbackPrompt is the deterministic concatenation used when summary
// generation fails. Bounded and stable so re-ingestion without the AI
// capability still converges on the same embedding.
func FallbackPrompt(r *recipe.Enriched) string {
	ingredients := strings.Join(r.Ingredients, ", ")
	if len(ingredients) > 100 {
		ingredients = ingredients[:100]
	}
	return fmt.Sprintf("%s - %s %s with %s...", r.Title, r.Cuisine, r.Category, ingredients)
}
