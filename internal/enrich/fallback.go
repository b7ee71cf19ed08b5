package enrich

import "github.com/forkful/recipe-mcp-server/internal/recipe"

// Fallback default values. Applied verbatim whenever enrichment cannot
// be completed; downstream code may rely on these exact values.
const (
	FallbackCuisine        = "Unknown"
	FallbackCategory       = "Main Dish"
	FallbackDifficulty     = 3
	FallbackServings       = 4
	FallbackPrepTime       = "30 minutes"
	FallbackCookTime       = "45 minutes"
	FallbackTotalTime      = "75 minutes"
	FallbackRating         = 4.0
	FallbackRatingCount    = 10
	FallbackNutritionNotes = "Nutrition information not available for this recipe."
	FallbackCookingTips    = "Read the full recipe before starting and prepare ingredients in advance."
)

// FallbackRelevance is the default persona scoring.
var FallbackRelevance = recipe.Relevance{Family: 0.8, Single: 0.6, Health: 0.7}

// Fallback builds a fully populated Enriched recipe from defaults.
// It never fails: the draft's own hints win over defaults where the
// source page provided them.
func Fallback(draft *recipe.Draft) *recipe.Enriched {
	e := &recipe.Enriched{
		Draft:           *draft,
		Cuisine:         FallbackCuisine,
		Category:        FallbackCategory,
		DifficultyLevel: FallbackDifficulty,
		Servings:        FallbackServings,
		PrepTime:        FallbackPrepTime,
		CookTime:        FallbackCookTime,
		TotalTime:       FallbackTotalTime,
		Rating:          FallbackRating,
		RatingCount:     FallbackRatingCount,
		Relevance:       FallbackRelevance,
		Tags:            []string{},
		NutritionNotes:  FallbackNutritionNotes,
		CookingTips:     FallbackCookingTips,
		Tools:           deriveTools(draft.Instructions),
		Keywords:        deriveKeywords(draft.Title, draft.Summary),
	}

	if draft.Cuisine != "" {
		e.Cuisine = draft.Cuisine
	}
	if draft.Category != "" {
		e.Category = draft.Category
	}
	if draft.Rating > 0 {
		e.Rating = draft.Rating
	}
	if draft.RatingCount > 0 {
		e.RatingCount = draft.RatingCount
	}

	return e
}
