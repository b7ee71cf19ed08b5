package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
	orch   Orchestrator
	saved  SavedRecipeStore
}

// Config holds server dependencies.
type Config struct {
	Pipeline Orchestrator
	Saved    SavedRecipeStore
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "recipe-mcp-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_and_store_recipe",
		Description: "Extract a recipe from a web page URL, enrich it with culinary metadata, and store it for semantic search. Returns the stored recipe's id and summary.",
	}, makeExtractAndStoreHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_recipes",
		Description: "Search stored recipes semantically using a natural language query (e.g. 'quick vegetarian dinner'). Returns up to 5 ranked matches.",
	}, makeSearchHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_similar_recipes",
		Description: "Find stored recipes similar to a recipe already in the collection, identified by its id. The source recipe is excluded from the results.",
	}, makeSimilarHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_similar_recipes_from_url",
		Description: "Find stored recipes similar to a recipe at a given URL without storing it. Useful for checking the collection before ingesting.",
	}, makeSimilarFromURLHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_recipe_by_id",
		Description: "Retrieve the full stored recipe by its id, including ingredients, instructions, and enrichment metadata.",
	}, makeGetRecipeHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_recipe_for_user",
		Description: "Add a stored recipe to a user's saved list. Saving the same recipe twice is a no-op.",
	}, makeSaveRecipeHandler(cfg.Saved))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user_saved_recipes",
		Description: "List a user's saved recipes, most recently saved first, with pagination.",
	}, makeListSavedHandler(cfg.Saved))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_saved_recipe",
		Description: "Remove a recipe from a user's saved list.",
	}, makeRemoveSavedHandler(cfg.Saved))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "is_recipe_saved",
		Description: "Check whether a recipe is on a user's saved list.",
	}, makeIsSavedHandler(cfg.Saved))

	return &Server{
		server: server,
		orch:   cfg.Pipeline,
		saved:  cfg.Saved,
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
