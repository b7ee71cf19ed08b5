package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forkful/recipe-mcp-server/internal/docstore"
	"github.com/forkful/recipe-mcp-server/internal/pipeline"
	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

// Orchestrator is the pipeline surface the tools expose.
type Orchestrator interface {
	ExtractAndStore(ctx context.Context, url string) (*pipeline.IngestResult, error)
	Search(ctx context.Context, query string) ([]recipe.SearchHit, error)
	Similar(ctx context.Context, recipeID string) ([]recipe.SearchHit, error)
	SimilarFromURL(ctx context.Context, url string) ([]recipe.SearchHit, error)
	GetByID(ctx context.Context, recipeID string) (*docstore.Record, error)
}

// SavedRecipeStore is the user-saved-recipe surface of the document
// store.
type SavedRecipeStore interface {
	SaveForUser(ctx context.Context, userID, recipeID string) (bool, error)
	ListSavedForUser(ctx context.Context, userID string, page, pageSize int) (*docstore.SavedPage, error)
	RemoveSaved(ctx context.Context, userID, recipeID string) (bool, error)
	IsSaved(ctx context.Context, userID, recipeID string) (bool, error)
}

// makeExtractAndStoreHandler creates the extract_and_store_recipe tool
// handler. Pipeline failures are reported in the payload rather than as
// protocol errors so conversational callers can relay them.
func makeExtractAndStoreHandler(orch Orchestrator) func(
	context.Context, *mcp.CallToolRequest, ExtractAndStoreInput,
) (*mcp.CallToolResult, ExtractAndStoreOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExtractAndStoreInput) (
		*mcp.CallToolResult, ExtractAndStoreOutput, error,
	) {
		result, err := orch.ExtractAndStore(ctx, input.URL)
		if err != nil {
			return nil, ExtractAndStoreOutput{
				Success: false,
				URL:     input.URL,
				Error:   err.Error(),
			}, nil
		}

		return nil, ExtractAndStoreOutput{
			Success:      true,
			RecipeID:     result.RecipeID,
			Title:        result.Title,
			Summary:      result.Summary,
			URL:          input.URL,
			VectorStored: result.VectorStored,
		}, nil
	}
}

// makeSearchHandler creates the search_recipes tool handler.
func makeSearchHandler(orch Orchestrator) func(
	context.Context, *mcp.CallToolRequest, SearchRecipesInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchRecipesInput) (
		*mcp.CallToolResult, SearchOutput, error,
	) {
		results, err := orch.Search(ctx, input.Query)
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
		}
		return nil, searchOutput(results), nil
	}
}

// makeSimilarHandler creates the get_similar_recipes tool handler.
func makeSimilarHandler(orch Orchestrator) func(
	context.Context, *mcp.CallToolRequest, SimilarRecipesInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SimilarRecipesInput) (
		*mcp.CallToolResult, SearchOutput, error,
	) {
		results, err := orch.Similar(ctx, input.RecipeID)
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("similar lookup failed: %w", err)
		}
		return nil, searchOutput(results), nil
	}
}

// makeSimilarFromURLHandler creates the find_similar_recipes_from_url
// tool handler.
func makeSimilarFromURLHandler(orch Orchestrator) func(
	context.Context, *mcp.CallToolRequest, SimilarFromURLInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SimilarFromURLInput) (
		*mcp.CallToolResult, SearchOutput, error,
	) {
		results, err := orch.SimilarFromURL(ctx, input.URL)
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("similar lookup failed: %w", err)
		}
		return nil, searchOutput(results), nil
	}
}

// makeGetRecipeHandler creates the get_recipe_by_id tool handler.
func makeGetRecipeHandler(orch Orchestrator) func(
	context.Context, *mcp.CallToolRequest, GetRecipeInput,
) (*mcp.CallToolResult, GetRecipeOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetRecipeInput) (
		*mcp.CallToolResult, GetRecipeOutput, error,
	) {
		rec, err := orch.GetByID(ctx, input.RecipeID)
		if err != nil {
			if errors.Is(err, pipeline.ErrRecipeNotFound) {
				return nil, GetRecipeOutput{Found: false}, nil
			}
			return nil, GetRecipeOutput{}, fmt.Errorf("failed to get recipe: %w", err)
		}

		return nil, GetRecipeOutput{Found: true, Recipe: recipeDetail(rec)}, nil
	}
}

// makeSaveRecipeHandler creates the save_recipe_for_user tool handler.
func makeSaveRecipeHandler(store SavedRecipeStore) func(
	context.Context, *mcp.CallToolRequest, SaveRecipeInput,
) (*mcp.CallToolResult, SaveRecipeOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SaveRecipeInput) (
		*mcp.CallToolResult, SaveRecipeOutput, error,
	) {
		saved, err := store.SaveForUser(ctx, input.UserID, input.RecipeID)
		if err != nil {
			if errors.Is(err, docstore.ErrRecipeNotFound) || errors.Is(err, docstore.ErrInvalidID) {
				return nil, SaveRecipeOutput{
					Saved:   false,
					Message: fmt.Sprintf("Recipe %s not found.", input.RecipeID),
				}, nil
			}
			return nil, SaveRecipeOutput{}, fmt.Errorf("failed to save recipe: %w", err)
		}

		out := SaveRecipeOutput{Saved: saved}
		if !saved {
			out.Message = "Recipe already saved."
		}
		return nil, out, nil
	}
}

// makeListSavedHandler creates the get_user_saved_recipes tool handler.
func makeListSavedHandler(store SavedRecipeStore) func(
	context.Context, *mcp.CallToolRequest, ListSavedInput,
) (*mcp.CallToolResult, ListSavedOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListSavedInput) (
		*mcp.CallToolResult, ListSavedOutput, error,
	) {
		page, err := store.ListSavedForUser(ctx, input.UserID, input.Page, input.PageSize)
		if err != nil {
			return nil, ListSavedOutput{}, fmt.Errorf("failed to list saved recipes: %w", err)
		}

		entries := make([]SavedRecipeEntry, 0, len(page.Recipes))
		for _, saved := range page.Recipes {
			entries = append(entries, SavedRecipeEntry{
				ID:      saved.Record.ID.Hex(),
				Title:   saved.Record.Title,
				Summary: saved.Record.Summary,
				Link:    saved.Record.Link,
				SavedAt: saved.SavedAt,
			})
		}

		return nil, ListSavedOutput{
			Recipes:    entries,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrev,
		}, nil
	}
}

// makeRemoveSavedHandler creates the remove_saved_recipe tool handler.
func makeRemoveSavedHandler(store SavedRecipeStore) func(
	context.Context, *mcp.CallToolRequest, RemoveSavedInput,
) (*mcp.CallToolResult, RemoveSavedOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RemoveSavedInput) (
		*mcp.CallToolResult, RemoveSavedOutput, error,
	) {
		removed, err := store.RemoveSaved(ctx, input.UserID, input.RecipeID)
		if err != nil {
			return nil, RemoveSavedOutput{}, fmt.Errorf("failed to remove saved recipe: %w", err)
		}
		return nil, RemoveSavedOutput{Removed: removed}, nil
	}
}

// makeIsSavedHandler creates the is_recipe_saved tool handler.
func makeIsSavedHandler(store SavedRecipeStore) func(
	context.Context, *mcp.CallToolRequest, IsSavedInput,
) (*mcp.CallToolResult, IsSavedOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IsSavedInput) (
		*mcp.CallToolResult, IsSavedOutput, error,
	) {
		saved, err := store.IsSaved(ctx, input.UserID, input.RecipeID)
		if err != nil {
			return nil, IsSavedOutput{}, fmt.Errorf("failed to check saved recipe: %w", err)
		}
		return nil, IsSavedOutput{Saved: saved}, nil
	}
}

func searchOutput(results []recipe.SearchHit) SearchOutput {
	if len(results) == 0 {
		return SearchOutput{
			Results: []recipe.SearchHit{},
			Message: "No matching recipes found. Try broader search terms.",
		}
	}
	return SearchOutput{Results: results}
}

func recipeDetail(rec *docstore.Record) *RecipeDetail {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	tools := rec.Tools
	if tools == nil {
		tools = []string{}
	}

	return &RecipeDetail{
		ID:              rec.ID.Hex(),
		Title:           rec.Title,
		Summary:         rec.Summary,
		Ingredients:     rec.Ingredients,
		Instructions:    rec.Instructions,
		Link:            rec.Link,
		Source:          rec.Source,
		ImageURL:        rec.ImageURL,
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
		Tags:            tags,
		NutritionNotes:  rec.NutritionNotes,
		CookingTips:     rec.CookingTips,
		Tools:           tools,
		UpdatedAt:       rec.UpdatedAt,
	}
}
