// Package recipe defines the domain model shared across the pipeline.
package recipe

// Draft is the normalized raw recipe extracted from a web page.
// It is created once by the extractor and never mutated afterwards.
type Draft struct {
	Title        string   // Recipe name from structured markup
	Summary      string   // Source description, may be empty
	Ingredients  []string // Ordered, trimmed ingredient lines
	Instructions []string // Ordered, trimmed step texts
	Link         string   // Source URL, natural key for upserts
	Source       string   // Host of the source URL
	ImageURL     string   // First image URL from markup, may be empty

	// Hints carried verbatim from the markup when present. The enricher
	// may override them with model output.
	Yield       string // recipeYield as written (e.g. "4 servings")
	PrepTime    string // ISO 8601 duration or free text
	CookTime    string // ISO 8601 duration or free text
	Cuisine     string // recipeCuisine hint
	Category    string // recipeCategory hint
	Rating      float64
	RatingCount int
}

// Relevance scores how well a recipe fits a persona, each in [0, 1].
type Relevance struct {
	Family float64 `json:"family" bson:"family"`
	Single float64 `json:"single" bson:"single"`
	Health float64 `json:"health" bson:"health"`
}

// Enriched is a Draft augmented with AI-derived (or fallback) attributes.
// Every field is populated after enrichment; there are no optional holes.
type Enriched struct {
	Draft

	Cuisine         string
	Category        string
	DifficultyLevel int    // 1-10
	Servings        int    // >= 1
	PrepTime        string // "30 minutes"
	CookTime        string
	TotalTime       string
	Rating          float64 // 0.0-5.0
	RatingCount     int
	Relevance       Relevance
	Tags            []string
	NutritionNotes  string
	CookingTips     string
	Tools           []string
	Keywords        []string
}

// SearchHit is a single result of a semantic search, hydrated from the
// vector index payload.
type SearchHit struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Link    string  `json:"link"`
	Score   float64 `json:"score"`
}
