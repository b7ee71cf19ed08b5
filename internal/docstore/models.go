package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

// Database and collection names.
const (
	DatabaseName        = "recipes"
	RecipeCollection    = "parsed_recipes"
	UserSavedCollection = "user_saved_recipes"
)

// Record is the canonical recipe document. The store assigns the
// ObjectID primary key; `link` is the natural key enforced by
// upsert-by-link.
type Record struct {
	ID              bson.ObjectID    `bson:"_id,omitempty"`
	Title           string           `bson:"title"`
	Summary         string           `bson:"summary"`
	Ingredients     []string         `bson:"ingredients"`
	Instructions    []string         `bson:"instruction_details"`
	Link            string           `bson:"link"`
	Source          string           `bson:"source"`
	ImageURL        string           `bson:"image_url"`
	Cuisine         string           `bson:"cuisine"`
	Category        string           `bson:"category"`
	DifficultyLevel int              `bson:"difficulty_level"`
	Servings        int              `bson:"servings"`
	PrepTime        string           `bson:"prep_time"`
	CookTime        string           `bson:"cook_time"`
	TotalTime       string           `bson:"total_time"`
	Rating          float64          `bson:"rating"`
	RatingCount     int              `bson:"rating_count"`
	Relevance       recipe.Relevance `bson:"relevance"`
	Tags            []string         `bson:"tags"`
	NutritionNotes  string           `bson:"nutrition_notes"`
	CookingTips     string           `bson:"cooking_tips"`
	Tools           []string         `bson:"tools"`
	Keywords        []string         `bson:"keywords"`

	// EmbeddingPrompt is the canonical text embedded for this recipe.
	// Once set it is reused by similarity lookups, never regenerated.
	EmbeddingPrompt string `bson:"embedding_prompt,omitempty"`
	VectorEmbedded  bool   `bson:"vector_embedded"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// savedRecipeDoc links a user to a saved recipe, denormalizing a few
// display fields so listings avoid a second lookup when the recipe is
// gone.
type savedRecipeDoc struct {
	UserID        string    `bson:"user_id"`
	RecipeID      string    `bson:"recipe_id"`
	SavedAt       time.Time `bson:"saved_at"`
	RecipeTitle   string    `bson:"recipe_title"`
	RecipeImage   string    `bson:"recipe_image"`
	RecipeSummary string    `bson:"recipe_summary"`
}

// SavedRecipe is one entry of a user's saved list.
type SavedRecipe struct {
	Record  *Record
	SavedAt time.Time
}

// SavedPage is a page of a user's saved recipes.
type SavedPage struct {
	Recipes    []*SavedRecipe
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewRecord builds a document from an enriched recipe and its
// embedding prompt.
func NewRecord(r *recipe.Enriched, embeddingPrompt string) *Record {
	return &Record{
		Title:           r.Title,
		Summary:         r.Draft.Summary,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Link:            r.Link,
		Source:          r.Source,
		ImageURL:        r.ImageURL,
		Cuisine:         r.Cuisine,
		Category:        r.Category,
		DifficultyLevel: r.DifficultyLevel,
		Servings:        r.Servings,
		PrepTime:        r.PrepTime,
		CookTime:        r.CookTime,
		TotalTime:       r.TotalTime,
		Rating:          r.Rating,
		RatingCount:     r.RatingCount,
		Relevance:       r.Relevance,
		Tags:            r.Tags,
		NutritionNotes:  r.NutritionNotes,
		CookingTips:     r.CookingTips,
		Tools:           r.Tools,
		Keywords:        r.Keywords,
		EmbeddingPrompt: embeddingPrompt,
		VectorEmbedded:  embeddingPrompt != "",
	}
}

// Enriched converts a stored record back into the domain type.
func (rec *Record) Enriched() *recipe.Enriched {
	return &recipe.Enriched{
		Draft: recipe.Draft{
			Title:        rec.Title,
			Summary:      rec.Summary,
			Ingredients:  rec.Ingredients,
			Instructions: rec.Instructions,
			Link:         rec.Link,
			Source:       rec.Source,
			ImageURL:     rec.ImageURL,
		},
		Cuisine:         rec.Cuisine,
		Category:        rec.Category,
		DifficultyLevel: rec.DifficultyLevel,
		Servings:        rec.Servings,
		PrepTime:        rec.PrepTime,
		CookTime:        rec.CookTime,
		TotalTime:       rec.TotalTime,
		Rating:          rec.Rating,
		RatingCount:     rec.RatingCount,
		Relevance:       rec.Relevance,
		Tags:            rec.Tags,
		NutritionNotes:  rec.NutritionNotes,
		CookingTips:     rec.CookingTips,
		Tools:           rec.Tools,
		Keywords:        rec.Keywords,
	}
}
