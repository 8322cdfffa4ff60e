// ABOUTME: Main entry point for the Atlas MCP server with stdio transport
// ABOUTME: Wires storage, retrieval, and generation behind the MCP tools
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atlascareer/atlas/internal/chat"
	"github.com/atlascareer/atlas/internal/config"
	"github.com/atlascareer/atlas/internal/embedding"
	"github.com/atlascareer/atlas/internal/generator"
	"github.com/atlascareer/atlas/internal/ingest"
	"github.com/atlascareer/atlas/internal/mcp"
	"github.com/atlascareer/atlas/internal/retriever"
	"github.com/atlascareer/atlas/internal/storage/sqlite"
	"github.com/atlascareer/atlas/internal/vectorstore"
	"github.com/atlascareer/atlas/internal/vectorstore/memory"
	"github.com/atlascareer/atlas/internal/vectorstore/qdrant"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - ingestion and retrieval will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	sessions := sqlite.NewSessionStore(db)
	messages := sqlite.NewMessageStore(db)
	documents := sqlite.NewDocumentStore(db)

	var vectors vectorstore.Store
	switch cfg.VectorBackend {
	case "memory":
		vectors = memory.NewStore(cfg.VectorDimension)
	default:
		store, err := qdrant.NewStore(context.Background(), cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection, cfg.VectorDimension)
		if err != nil {
			log.Fatalf("Failed to connect to qdrant: %v", err)
		}
		defer func() { _ = store.Close() }()
		vectors = store
	}

	embedder := embedding.NewService(embedding.Config{
		APIKey:    cfg.OpenAIKey,
		Model:     cfg.EmbeddingModel,
		Dimension: cfg.VectorDimension,
		Timeout:   cfg.EmbedTimeout,
	})
	answerGen := generator.New(generator.Config{
		APIKey:      cfg.GenerationKey,
		BaseURL:     cfg.GenerationBaseURL,
		Model:       cfg.GenerationModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.GenerateTimeout,
	})
	contextRetriever := retriever.New(embedder, vectors)
	processor := ingest.NewProcessor(embedder, vectors, documents, cfg.MaxChunkSize)
	orchestrator := chat.NewOrchestrator(messages, sessions, contextRetriever, answerGen, cfg.TopK, cfg.ScoreThreshold)

	server := mcpserver.NewMCPServer(
		"Atlas Career Advisor",
		"0.1.0",
	)

	mcp.RegisterTools(server, orchestrator, sessions, documents, processor, contextRetriever, cfg.TopK, cfg.ScoreThreshold)

	log.Println("Atlas MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
