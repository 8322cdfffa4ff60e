// ABOUTME: Centralized configuration for the Atlas assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the Atlas RAG pipeline.
type Config struct {
	// Embedding settings (OpenAI-compatible)
	OpenAIKey       string
	EmbeddingModel  string
	VectorDimension int
	EmbedTimeout    time.Duration

	// Generation settings. The base URL defaults to Cerebras but any
	// OpenAI-compatible chat completion endpoint works.
	GenerationKey     string
	GenerationBaseURL string
	GenerationModel   string
	GenerateTimeout   time.Duration
	MaxTokens         int
	Temperature       float32

	// Vector store settings
	VectorBackend    string // "qdrant" or "memory"
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
	QueryTimeout     time.Duration

	// Retrieval settings
	ScoreThreshold float32
	TopK           int
	MaxChunkSize   int

	// Persistence
	DBPath string
}

// Load reads configuration from environment variables.
//
// Missing credentials do not fail Load: the component that needs them reports
// a configuration error on first use, so the rest of the system stays usable.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:  getEnv("ATLAS_EMBEDDING_MODEL", "text-embedding-3-small"),
		VectorDimension: getEnvInt("ATLAS_VECTOR_DIMENSION", 1536),
		EmbedTimeout:    getEnvDuration("ATLAS_EMBED_TIMEOUT", 30*time.Second),

		GenerationKey:     getEnv("ATLAS_GENERATION_API_KEY", os.Getenv("CEREBRAS_API_KEY")),
		GenerationBaseURL: getEnv("ATLAS_GENERATION_BASE_URL", "https://api.cerebras.ai/v1"),
		GenerationModel:   getEnv("ATLAS_GENERATION_MODEL", "llama-3.3-70b"),
		GenerateTimeout:   getEnvDuration("ATLAS_GENERATE_TIMEOUT", 2*time.Minute),
		MaxTokens:         getEnvInt("ATLAS_MAX_COMPLETION_TOKENS", 2048),
		Temperature:       float32(getEnvFloat("ATLAS_TEMPERATURE", 0.7)),

		VectorBackend:    getEnv("ATLAS_VECTOR_BACKEND", "qdrant"),
		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "atlas-documents"),
		QueryTimeout:     getEnvDuration("ATLAS_QUERY_TIMEOUT", 15*time.Second),

		ScoreThreshold: float32(getEnvFloat("ATLAS_SCORE_THRESHOLD", 0.3)),
		TopK:           getEnvInt("ATLAS_TOP_K", 5),
		MaxChunkSize:   getEnvInt("ATLAS_MAX_CHUNK_SIZE", 500),

		DBPath: getEnv("ATLAS_DB_PATH", defaultDBPath()),
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges that would silently corrupt retrieval if wrong.
func (c *Config) Validate() error {
	if c.ScoreThreshold < -1 || c.ScoreThreshold > 1 {
		return fmt.Errorf("ATLAS_SCORE_THRESHOLD must be in [-1,1], got %f", c.ScoreThreshold)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("ATLAS_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("ATLAS_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("ATLAS_MAX_CHUNK_SIZE must be positive, got %d", c.MaxChunkSize)
	}
	if c.VectorBackend != "qdrant" && c.VectorBackend != "memory" {
		return fmt.Errorf("ATLAS_VECTOR_BACKEND must be qdrant or memory, got %q", c.VectorBackend)
	}
	return nil
}

// defaultDBPath returns the XDG-compliant default database location.
func defaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "atlas", "atlas.db")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "atlas", "atlas.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
