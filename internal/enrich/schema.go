package enrich

import (
	"fmt"
	"strings"

	"github.com/forkful/recipe-mcp-server/internal/ai"
	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

const systemPrompt = "You are a culinary expert. Always respond with valid JSON only."

// EnrichmentSchema is the strict output contract for the enrichment
// call. All fields are required and no extra fields are permitted, so a
// conformant response always merges cleanly into the draft.
var EnrichmentSchema = ai.Schema{
	Name:        "recipe_enrichment",
	Description: "Enriched recipe information including cuisine, category, difficulty, timing, ratings, and relevance scores",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cuisine": map[string]any{
				"type":        "string",
				"description": "The type of cuisine (e.g., Italian, Mexican, Asian, American, Mediterranean)",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "The meal category (e.g., Main Dish, Appetizer, Dessert, Soup, Salad, Breakfast)",
			},
			"difficulty_level": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     10,
				"description": "Difficulty level from 1 (easy) to 10 (expert)",
			},
			"servings": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "Number of people this recipe serves",
			},
			"prep_time": map[string]any{
				"type":        "string",
				"description": "Estimated prep time (e.g., '30 minutes')",
			},
			"cook_time": map[string]any{
				"type":        "string",
				"description": "Estimated cooking time (e.g., '45 minutes')",
			},
			"total_time": map[string]any{
				"type":        "string",
				"description": "Total time including prep and cook (e.g., '75 minutes')",
			},
			"rating": map[string]any{
				"type":        "number",
				"minimum":     1.0,
				"maximum":     5.0,
				"description": "A realistic rating from 1.0 to 5.0",
			},
			"rating_count": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "Number of ratings (realistic number)",
			},
			"relevance": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"family": map[string]any{
						"type":        "number",
						"minimum":     0.0,
						"maximum":     1.0,
						"description": "How suitable for families with children",
					},
					"single": map[string]any{
						"type":        "number",
						"minimum":     0.0,
						"maximum":     1.0,
						"description": "How suitable for single people",
					},
					"health": map[string]any{
						"type":        "number",
						"minimum":     0.0,
						"maximum":     1.0,
						"description": "How healthy this recipe is",
					},
				},
				"required":             []string{"family", "single", "health"},
				"additionalProperties": false,
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Array of relevant tags (e.g., ['vegetarian', 'quick', 'budget-friendly'])",
			},
			"nutrition_notes": map[string]any{
				"type":        "string",
				"description": "Brief nutrition information",
			},
			"cooking_tips": map[string]any{
				"type":        "string",
				"description": "1-2 helpful cooking tips",
			},
		},
		"required": []string{
			"cuisine", "category", "difficulty_level", "servings",
			"prep_time", "cook_time", "total_time", "rating",
			"rating_count", "relevance", "tags", "nutrition_notes", "cooking_tips",
		},
		"additionalProperties": false,
	},
}

// buildPrompt renders the draft recipe into the enrichment user prompt.
func buildPrompt(d *recipe.Draft) string {
	var b strings.Builder
	b.WriteString("Analyze this recipe and provide enriched information.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", d.Title)
	fmt.Fprintf(&b, "Description: %s\n\n", d.Summary)

	b.WriteString("Ingredients:\n")
	for _, ing := range d.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}

	b.WriteString("\nInstructions:\n")
	for i, step := range d.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	if d.Yield != "" {
		fmt.Fprintf(&b, "\nStated yield: %s\n", d.Yield)
	}
	if d.PrepTime != "" || d.CookTime != "" {
		fmt.Fprintf(&b, "Stated timing: prep %s, cook %s\n", d.PrepTime, d.CookTime)
	}

	return b.String()
}
