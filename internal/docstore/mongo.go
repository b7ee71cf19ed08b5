// Package docstore persists canonical recipe records in MongoDB, keyed
// by source link (natural key) and a store-assigned ObjectID.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Store wraps the MongoDB client with recipe and user-saved-recipe
// collections.
type Store struct {
	client  *mongo.Client
	recipes *mongo.Collection
	saved   *mongo.Collection
}

// NewStore connects to MongoDB and verifies reachability. The initial
// ping is retried with exponential backoff so the process survives a
// store that is still coming up; it fails fast once the backoff window
// is exhausted.
func NewStore(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	s := &Store{
		client:  client,
		recipes: client.Database(DatabaseName).Collection(RecipeCollection),
		saved:   client.Database(DatabaseName).Collection(UserSavedCollection),
	}

	if err := s.pingWithRetry(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrMongoUnreachable, err)
	}

	return s, nil
}

// pingWithRetry performs a connectivity check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *Store) pingWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		return s.client.Ping(ctx, readpref.Primary())
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// Health performs a single connectivity check.
func (s *Store) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// UpsertByLink inserts or replaces the record matching its link and
// returns the primary identifier. Re-ingesting the same link replaces
// the document in place and preserves the existing ObjectID, so the
// operation is idempotent at the document layer.
func (s *Store) UpsertByLink(ctx context.Context, rec *Record) (string, error) {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.ID = bson.ObjectID{} // the store owns the primary key

	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored Record
	err := s.recipes.FindOneAndReplace(ctx, bson.M{"link": rec.Link}, rec, opts).Decode(&stored)
	if err != nil {
		return "", fmt.Errorf("upsert recipe by link: %w", err)
	}

	return stored.ID.Hex(), nil
}

// GetByID retrieves a recipe by its ObjectID hex string.
// Returns ErrRecipeNotFound if no such document exists.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	var rec Record
	err = s.recipes.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	return &rec, nil
}

// SaveForUser records a recipe on a user's saved list. Returns false
// without error when the recipe is already saved.
func (s *Store) SaveForUser(ctx context.Context, userID, recipeID string) (bool, error) {
	rec, err := s.GetByID(ctx, recipeID)
	if err != nil {
		return false, err
	}

	already, err := s.IsSaved(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if already {
		return false, nil
	}

	doc := savedRecipeDoc{
		UserID:        userID,
		RecipeID:      recipeID,
		SavedAt:       time.Now().UTC(),
		RecipeTitle:   rec.Title,
		RecipeImage:   rec.ImageURL,
		RecipeSummary: rec.Summary,
	}
	if _, err := s.saved.InsertOne(ctx, doc); err != nil {
		return false, fmt.Errorf("save recipe for user: %w", err)
	}

	return true, nil
}

// ListSavedForUser returns one page of a user's saved recipes, most
// recently saved first. Saved entries whose recipe document has since
// been removed administratively are skipped.
func (s *Store) ListSavedForUser(ctx context.Context, userID string, page, pageSize int) (*SavedPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	filter := bson.M{"user_id": userID}

	total, err := s.saved.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count saved recipes: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "saved_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.saved.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list saved recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []savedRecipeDoc
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode saved recipes: %w", err)
	}

	recipes := make([]*SavedRecipe, 0, len(entries))
	for _, entry := range entries {
		rec, err := s.GetByID(ctx, entry.RecipeID)
		if err != nil {
			if errors.Is(err, ErrRecipeNotFound) || errors.Is(err, ErrInvalidID) {
				continue
			}
			return nil, err
		}
		recipes = append(recipes, &SavedRecipe{Record: rec, SavedAt: entry.SavedAt})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &SavedPage{
		Recipes:    recipes,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// RemoveSaved deletes a recipe from a user's saved list. Returns false
// when nothing was saved under that pair.
func (s *Store) RemoveSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	result, err := s.saved.DeleteOne(ctx, bson.M{"user_id": userID, "recipe_id": recipeID})
	if err != nil {
		return false, fmt.Errorf("remove saved recipe: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// IsSaved reports whether the user has saved the recipe.
func (s *Store) IsSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	err := s.saved.FindOne(ctx, bson.M{"user_id": userID, "recipe_id": recipeID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check saved recipe: %w", err)
	}
	return true, nil
}
