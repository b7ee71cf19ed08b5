package vecstore

import "github.com/forkful/recipe-mcp-server/internal/recipe"

// CollectionName is the single Qdrant collection for all recipes.
const CollectionName = "recipes"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536

// Point is a recipe vector record. Its integer id is always
// PointID(DocID); the payload carries a denormalized copy of the
// enriched recipe plus the DocID back-reference.
type Point struct {
	DocID  string // document-store primary identifier
	Vector []float32
	Recipe *recipe.Enriched
}

// ScoredRecipe is one nearest-neighbor result, ordered by descending
// cosine similarity.
type ScoredRecipe struct {
	DocID   string
	Title   string
	Summary string
	Link    string
	Score   float64
}
