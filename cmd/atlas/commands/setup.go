// ABOUTME: Shared component wiring for CLI commands
// ABOUTME: Builds the embedding, vector store, and chat pipeline from config
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/atlascareer/atlas/internal/chat"
	"github.com/atlascareer/atlas/internal/config"
	"github.com/atlascareer/atlas/internal/embedding"
	"github.com/atlascareer/atlas/internal/generator"
	"github.com/atlascareer/atlas/internal/ingest"
	"github.com/atlascareer/atlas/internal/retriever"
	"github.com/atlascareer/atlas/internal/storage/sqlite"
	"github.com/atlascareer/atlas/internal/vectorstore"
	"github.com/atlascareer/atlas/internal/vectorstore/memory"
	"github.com/atlascareer/atlas/internal/vectorstore/qdrant"
)

// app bundles the wired pipeline components behind one Close.
type app struct {
	cfg *config.Config
	db  *sqlite.DB

	sessions  *sqlite.SessionStore
	messages  *sqlite.MessageStore
	documents *sqlite.DocumentStore

	vectors      vectorstore.Store
	embedder     *embedding.Service
	retriever    *retriever.Retriever
	generator    *generator.Generator
	processor    *ingest.Processor
	orchestrator *chat.Orchestrator
}

// newApp loads configuration and wires every component. The vector backend
// is chosen by ATLAS_VECTOR_BACKEND: qdrant for real deployments, memory for
// local experiments without a running Qdrant.
func newApp(ctx context.Context) (*app, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{
		cfg:       cfg,
		db:        db,
		sessions:  sqlite.NewSessionStore(db),
		messages:  sqlite.NewMessageStore(db),
		documents: sqlite.NewDocumentStore(db),
	}

	switch cfg.VectorBackend {
	case "memory":
		a.vectors = memory.NewStore(cfg.VectorDimension)
	default:
		store, err := qdrant.NewStore(ctx, cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection, cfg.VectorDimension)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("connecting to qdrant: %w", err)
		}
		a.vectors = store
	}

	a.embedder = embedding.NewService(embedding.Config{
		APIKey:    cfg.OpenAIKey,
		Model:     cfg.EmbeddingModel,
		Dimension: cfg.VectorDimension,
		Timeout:   cfg.EmbedTimeout,
	})
	a.generator = generator.New(generator.Config{
		APIKey:      cfg.GenerationKey,
		BaseURL:     cfg.GenerationBaseURL,
		Model:       cfg.GenerationModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.GenerateTimeout,
	})
	a.retriever = retriever.New(a.embedder, a.vectors)
	a.processor = ingest.NewProcessor(a.embedder, a.vectors, a.documents, cfg.MaxChunkSize)
	a.orchestrator = chat.NewOrchestrator(a.messages, a.sessions, a.retriever, a.generator, cfg.TopK, cfg.ScoreThreshold)

	return a, nil
}

// Close releases the database and vector store connections
func (a *app) Close() {
	if closer, ok := a.vectors.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
