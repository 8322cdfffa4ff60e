// ABOUTME: Embedding service mapping text to unit-length vectors
// ABOUTME: Lazily builds one shared OpenAI client, safe under concurrent first use
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNotConfigured means the embedding backend has no API key.
	ErrNotConfigured = errors.New("embedding backend not configured")
	// ErrEmbedding means the backend failed to load or process input.
	ErrEmbedding = errors.New("embedding failure")
	// ErrDimensionMismatch means the backend returned a vector whose size
	// differs from the configured dimension. Stored and queried vectors must
	// share one dimension, so this is fatal configuration drift, never
	// something to paper over.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Config holds settings for the OpenAI-backed embedding service.
type Config struct {
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// embeddingsClient is the slice of the OpenAI client the service needs.
// *openai.Client satisfies it; tests substitute a fake via the factory field.
type embeddingsClient interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Service embeds text through an OpenAI-compatible embeddings endpoint.
//
// The underlying client is built exactly once, on first use, behind a
// sync.Once: concurrent first callers all observe the same fully-built client
// or the same construction error, and nobody sees a half-built one. The
// service is shared by all in-flight chat turns.
type Service struct {
	cfg     Config
	factory func() (embeddingsClient, error)

	initOnce sync.Once
	client   embeddingsClient
	initErr  error
}

// NewService creates an embedding service. The client is not built until the
// first Embed call, so creation never fails.
func NewService(cfg Config) *Service {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &Service{cfg: cfg}
	s.factory = func() (embeddingsClient, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrNotConfigured)
		}
		return openai.NewClient(cfg.APIKey), nil
	}
	return s
}

// Dimension returns the process-wide embedding dimension.
func (s *Service) Dimension() int {
	return s.cfg.Dimension
}

// Embed returns the L2-normalized embedding vector for text.
// The same text always yields the same vector, up to backend determinism.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := s.sharedClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.cfg.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrEmbedding)
	}

	vec := resp.Data[0].Embedding
	if len(vec) != s.cfg.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.cfg.Dimension, len(vec))
	}

	return Normalize(vec), nil
}

// sharedClient returns the one shared client, building it on first call.
func (s *Service) sharedClient() (embeddingsClient, error) {
	s.initOnce.Do(func() {
		s.client, s.initErr = s.factory()
	})
	return s.client, s.initErr
}

// Normalize scales a vector to unit L2 length so cosine similarity and dot
// product coincide. Zero vectors are returned unchanged.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
