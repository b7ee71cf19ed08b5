// Package main provides the recipes CLI for ingesting and searching recipes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forkful/recipe-mcp-server/internal/ai"
	"github.com/forkful/recipe-mcp-server/internal/config"
	"github.com/forkful/recipe-mcp-server/internal/docstore"
	"github.com/forkful/recipe-mcp-server/internal/embedding"
	"github.com/forkful/recipe-mcp-server/internal/enrich"
	"github.com/forkful/recipe-mcp-server/internal/extract"
	"github.com/forkful/recipe-mcp-server/internal/pipeline"
	"github.com/forkful/recipe-mcp-server/internal/recipe"
	"github.com/forkful/recipe-mcp-server/internal/summary"
	"github.com/forkful/recipe-mcp-server/internal/vecstore"
)

var rootCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Recipe ingestion and search tool",
	Long: `CLI tool for the recipe pipeline: extract recipes from web pages,
store them in MongoDB and Qdrant, and search them semantically.

Environment variables:
  MONGODB_URL    MongoDB connection string (default: mongodb://localhost:27017)
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for enrichment and embeddings (required)`,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest URL...",
	Short: "Extract, enrich, and store recipes from web pages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search stored recipes with a natural language query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var similarCmd = &cobra.Command{
	Use:   "similar RECIPE_ID",
	Short: "Find recipes similar to a stored recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(similarCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline wires the full pipeline from environment configuration.
// The returned cleanup closes both store connections.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	docs, err := docstore.NewStore(ctx, cfg.MongoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	vectors, err := vecstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantAPIKey)
	if err != nil {
		docs.Close(context.Background())
		return nil, nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	cleanup := func() {
		vectors.Close()
		docs.Close(context.Background())
	}

	if err := vectors.EnsureCollection(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	aiClient, err := ai.NewClient(cfg.ChatModel, cfg.ChatTimeout)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	pipe := pipeline.New(
		extract.NewExtractor(cfg.ExtractTimeout),
		enrich.NewEnricher(aiClient, logger),
		summary.NewGenerator(aiClient, logger),
		embedding.NewEmbedder(aiClient),
		docs,
		vectors,
		logger,
	)

	return pipe, cleanup, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	pipe, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var failed int
	for _, url := range args {
		fmt.Printf("Ingesting %s...\n", url)
		result, err := pipe.ExtractAndStore(ctx, url)
		if err != nil {
			failed++
			fmt.Printf("  failed: %v\n", err)
			continue
		}

		fmt.Printf("  stored %q (id %s)\n", result.Title, result.RecipeID)
		if !result.VectorStored {
			fmt.Println("  warning: vector write failed; recipe will not appear in search results")
		}
	}

	fmt.Println()
	fmt.Printf("Done: %d/%d ingested in %s\n", len(args)-failed, len(args), time.Since(start).Round(time.Second))
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(args))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pipe, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	hits, err := pipe.Search(ctx, args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printHits(hits)
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pipe, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	hits, err := pipe.Similar(ctx, args[0])
	if err != nil {
		return fmt.Errorf("similar lookup failed: %w", err)
	}
	printHits(hits)
	return nil
}

func printHits(hits []recipe.SearchHit) {
	if len(hits) == 0 {
		fmt.Println("No matching recipes found.")
		return
	}
	for i, hit := range hits {
		fmt.Printf("%d. %s (score %.3f)\n", i+1, hit.Title, hit.Score)
		if hit.Summary != "" {
			fmt.Printf("   %s\n", hit.Summary)
		}
		fmt.Printf("   %s (id %s)\n", hit.Link, hit.ID)
	}
}
