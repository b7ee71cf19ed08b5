// Package mcp exposes the recipe pipeline as Model Context Protocol
// tools.
package mcp

import (
	"time"

	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

// ExtractAndStoreInput defines the input for the extract_and_store_recipe tool.
type ExtractAndStoreInput struct {
	// URL is the web page to ingest.
	URL string `json:"url" jsonschema:"The URL of the recipe page to extract and store"`
}

// ExtractAndStoreOutput reports the ingestion outcome.
type ExtractAndStoreOutput struct {
	Success  bool   `json:"success"`
	RecipeID string `json:"recipe_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Summary  string `json:"summary,omitempty"`
	URL      string `json:"url"`
	// VectorStored is false when the document was saved but the vector
	// write failed; the recipe is retrievable by id but will not appear
	// in similarity results until re-ingested.
	VectorStored bool   `json:"vector_stored"`
	Error        string `json:"error,omitempty"`
}

// SearchRecipesInput defines the input for the search_recipes tool.
type SearchRecipesInput struct {
	// Query is a natural language description of the recipes to find.
	Query string `json:"query" jsonschema:"A natural language description of the recipes you want to find"`
}

// SimilarRecipesInput defines the input for the get_similar_recipes tool.
type SimilarRecipesInput struct {
	RecipeID string `json:"recipe_id" jsonschema:"The identifier of the recipe to find similar recipes for"`
}

// SimilarFromURLInput defines the input for the find_similar_recipes_from_url tool.
type SimilarFromURLInput struct {
	URL string `json:"url" jsonschema:"The URL of the recipe to find similar recipes for"`
}

// SearchOutput contains ranked search results.
type SearchOutput struct {
	Results []recipe.SearchHit `json:"results"`
	// Message provides informational context (e.g., "No matching recipes found").
	Message string `json:"message,omitempty"`
}

// GetRecipeInput defines the input for the get_recipe_by_id tool.
type GetRecipeInput struct {
	RecipeID string `json:"recipe_id" jsonschema:"The identifier of the recipe to retrieve"`
}

// RecipeDetail is the full canonical record returned by get_recipe_by_id.
type RecipeDetail struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Summary         string           `json:"summary"`
	Ingredients     []string         `json:"ingredients"`
	Instructions    []string         `json:"instructions"`
	Link            string           `json:"link"`
	Source          string           `json:"source"`
	ImageURL        string           `json:"image_url,omitempty"`
	Cuisine         string           `json:"cuisine"`
	Category        string           `json:"category"`
	DifficultyLevel int              `json:"difficulty_level"`
	Servings        int              `json:"servings"`
	PrepTime        string           `json:"prep_time"`
	CookTime        string           `json:"cook_time"`
	TotalTime       string           `json:"total_time,omitempty"`
	Rating          float64          `json:"rating"`
	RatingCount     int              `json:"rating_count"`
	Relevance       recipe.Relevance `json:"relevance"`
	Tags            []string         `json:"tags"`
	NutritionNotes  string           `json:"nutrition_notes,omitempty"`
	CookingTips     string           `json:"cooking_tips,omitempty"`
	Tools           []string         `json:"tools"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// GetRecipeOutput contains the retrieved recipe.
type GetRecipeOutput struct {
	Found  bool          `json:"found"`
	Recipe *RecipeDetail `json:"recipe,omitempty"`
}

// SaveRecipeInput defines the input for the save_recipe_for_user tool.
type SaveRecipeInput struct {
	UserID   string `json:"user_id" jsonschema:"The user saving the recipe"`
	RecipeID string `json:"recipe_id" jsonschema:"The recipe to save"`
}

// SaveRecipeOutput reports whether a new saved entry was created.
type SaveRecipeOutput struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message,omitempty"`
}

// ListSavedInput defines the input for the get_user_saved_recipes tool.
type ListSavedInput struct {
	UserID   string `json:"user_id" jsonschema:"The user whose saved recipes to list"`
	Page     int    `json:"page,omitempty" jsonschema:"Page number (1-based)"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"Recipes per page"`
}

// SavedRecipeEntry is one entry of a user's saved list.
type SavedRecipeEntry struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Link    string    `json:"link"`
	SavedAt time.Time `json:"saved_at"`
}

// ListSavedOutput is one page of saved recipes with pagination info.
type ListSavedOutput struct {
	Recipes    []SavedRecipeEntry `json:"recipes"`
	Total      int64              `json:"total"`
	TotalPages int                `json:"total_pages"`
	HasNext    bool               `json:"has_next"`
	HasPrev    bool               `json:"has_prev"`
}

// RemoveSavedInput defines the input for the remove_saved_recipe tool.
type RemoveSavedInput struct {
	UserID   string `json:"user_id" jsonschema:"The user removing the saved recipe"`
	RecipeID string `json:"recipe_id" jsonschema:"The recipe to remove from the saved list"`
}

// RemoveSavedOutput reports whether an entry was removed.
type RemoveSavedOutput struct {
	Removed bool `json:"removed"`
}

// IsSavedInput defines the input for the is_recipe_saved tool.
type IsSavedInput struct {
	UserID   string `json:"user_id" jsonschema:"The user to check"`
	RecipeID string `json:"recipe_id" jsonschema:"The recipe to check"`
}

// IsSavedOutput reports whether the recipe is on the user's saved list.
type IsSavedOutput struct {
	Saved bool `json:"saved"`
}
