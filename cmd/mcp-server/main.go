// Package main provides the recipe MCP server entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/forkful/recipe-mcp-server/internal/ai"
	"github.com/forkful/recipe-mcp-server/internal/config"
	"github.com/forkful/recipe-mcp-server/internal/docstore"
	"github.com/forkful/recipe-mcp-server/internal/embedding"
	"github.com/forkful/recipe-mcp-server/internal/enrich"
	"github.com/forkful/recipe-mcp-server/internal/extract"
	mcpserver "github.com/forkful/recipe-mcp-server/internal/mcp"
	"github.com/forkful/recipe-mcp-server/internal/pipeline"
	"github.com/forkful/recipe-mcp-server/internal/summary"
	"github.com/forkful/recipe-mcp-server/internal/vecstore"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	// Logs go to stderr so stdio transport keeps stdout clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Document store
	docs, err := docstore.NewStore(ctx, cfg.MongoURL)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer docs.Close(context.Background())

	// Vector index
	vectors, err := vecstore.NewIndex(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantAPIKey)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer vectors.Close()

	if err := vectors.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	// OpenAI-backed components
	aiClient, err := ai.NewClient(cfg.ChatModel, cfg.ChatTimeout)
	if err != nil {
		log.Fatalf("failed to create OpenAI client: %v", err)
	}
	enricher := enrich.NewEnricher(aiClient, logger)
	summaries := summary.NewGenerator(aiClient, logger)
	embedder := embedding.NewEmbedder(aiClient)

	extractor := extract.NewExtractor(cfg.ExtractTimeout)

	pipe := pipeline.New(extractor, enricher, summaries, embedder, docs, vectors, logger)

	// Create MCP server
	server := mcpserver.NewServer(&mcpserver.Config{
		Pipeline: pipe,
		Saved:    docs,
	})

	// Create HTTP server with multiple endpoints
	mux := http.NewServeMux()
	mux.HandleFunc("/", mcpserver.NewLandingHandler())
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(docs, vectors))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	if cfg.ServerMode {
		// HTTP mode: serve MCP over HTTP for remote clients
		addr := "0.0.0.0:" + cfg.Port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP server over stdin/stdout for local clients
		// Also start HTTP health endpoint in background for local testing
		go func() {
			addr := "0.0.0.0:" + cfg.Port
			log.Printf("Starting health server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Health server error: %v", err)
			}
		}()

		log.Println("Starting Recipe MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}
