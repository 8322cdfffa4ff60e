// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Verifies defaults, env overrides, and rejected ranges

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want 1536", cfg.VectorDimension)
	}
	if cfg.GenerationModel != "llama-3.3-70b" {
		t.Errorf("GenerationModel = %q", cfg.GenerationModel)
	}
	if cfg.GenerationBaseURL != "https://api.cerebras.ai/v1" {
		t.Errorf("GenerationBaseURL = %q", cfg.GenerationBaseURL)
	}
	if cfg.ScoreThreshold != 0.3 {
		t.Errorf("ScoreThreshold = %f, want 0.3", cfg.ScoreThreshold)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.MaxChunkSize != 500 {
		t.Errorf("MaxChunkSize = %d, want 500", cfg.MaxChunkSize)
	}
	if cfg.VectorBackend != "qdrant" {
		t.Errorf("VectorBackend = %q, want qdrant", cfg.VectorBackend)
	}
	if cfg.EmbedTimeout != 30*time.Second {
		t.Errorf("EmbedTimeout = %v", cfg.EmbedTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ATLAS_SCORE_THRESHOLD", "0.5")
	t.Setenv("ATLAS_TOP_K", "10")
	t.Setenv("ATLAS_VECTOR_BACKEND", "memory")
	t.Setenv("ATLAS_EMBED_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ScoreThreshold != 0.5 {
		t.Errorf("ScoreThreshold = %f, want 0.5", cfg.ScoreThreshold)
	}
	if cfg.TopK != 10 {
		t.Errorf("TopK = %d, want 10", cfg.TopK)
	}
	if cfg.VectorBackend != "memory" {
		t.Errorf("VectorBackend = %q, want memory", cfg.VectorBackend)
	}
	if cfg.EmbedTimeout != 5*time.Second {
		t.Errorf("EmbedTimeout = %v, want 5s", cfg.EmbedTimeout)
	}
}

func TestLoad_MissingKeysDoNotFail(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ATLAS_GENERATION_API_KEY", "")
	t.Setenv("CEREBRAS_API_KEY", "")

	if _, err := Load(); err != nil {
		t.Errorf("Load() without credentials error = %v, want nil", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above 1", func(c *Config) { c.ScoreThreshold = 1.5 }},
		{"threshold below -1", func(c *Config) { c.ScoreThreshold = -1.5 }},
		{"zero dimension", func(c *Config) { c.VectorDimension = 0 }},
		{"zero topK", func(c *Config) { c.TopK = 0 }},
		{"zero chunk size", func(c *Config) { c.MaxChunkSize = 0 }},
		{"unknown backend", func(c *Config) { c.VectorBackend = "pinecone" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted invalid config")
			}
		})
	}
}

func TestValidate_ThresholdBoundsInclusive(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, v := range []float32{-1, 0, 1} {
		cfg.ScoreThreshold = v
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() rejected threshold %f: %v", v, err)
		}
	}
}
