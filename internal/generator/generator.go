// ABOUTME: Response generator assembling grounded prompts for chat completion
// ABOUTME: Consumes the provider's fragment stream into one answer string
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNotConfigured means the generation provider has no API key.
	ErrNotConfigured = errors.New("generation provider not configured")
	// ErrGeneration means the completion request failed. Single attempt,
	// no retry; the orchestrator decides what to do with the turn.
	ErrGeneration = errors.New("generation failure")
)

// systemPrompt is the fixed career-advisory instruction. Retrieved context is
// appended to it when present; the user message travels as its own turn.
const systemPrompt = `You are a professional career advisor assistant. You help students and professionals with career guidance, resume improvement, skill development, and career planning.

Use the provided context about the user's profile to give personalized advice. Be encouraging, constructive, and specific in your recommendations.`

// fragmentStream is a sequence of completion fragments with explicit
// end-of-stream (io.EOF) and error termination. *openai.ChatCompletionStream
// is adapted onto it; tests substitute a scripted one.
type fragmentStream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// Config holds settings for the generation provider. Any OpenAI-compatible
// chat completion endpoint works via BaseURL.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Generator produces grounded natural-language answers.
type Generator struct {
	cfg    Config
	stream func(ctx context.Context, req openai.ChatCompletionRequest) (fragmentStream, error)
}

// New creates a Generator. With no API key the generator is created anyway
// and reports ErrNotConfigured on use, so startup never hard-fails on a
// missing credential.
func New(cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	g := &Generator{cfg: cfg}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client := openai.NewClientWithConfig(clientCfg)
		g.stream = func(ctx context.Context, req openai.ChatCompletionRequest) (fragmentStream, error) {
			return client.CreateChatCompletionStream(ctx, req)
		}
	}
	return g
}

// Generate builds the grounded prompt and returns the complete answer text.
// The provider streams fragments; they are accumulated in arrival order and
// the caller only ever sees the finished string.
func (g *Generator) Generate(ctx context.Context, userMessage string, contextPassages []string) (string, error) {
	if g.stream == nil {
		return "", fmt.Errorf("%w: set ATLAS_GENERATION_API_KEY or CEREBRAS_API_KEY", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	stream, err := g.stream(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(contextPassages)},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer stream.Close()

	var answer strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: stream: %v", ErrGeneration, err)
		}
		if len(resp.Choices) > 0 {
			answer.WriteString(resp.Choices[0].Delta.Content)
		}
	}
	return answer.String(), nil
}

// BuildSystemPrompt returns the fixed instruction, extended with a context
// block only when passages exist. Passages keep their retrieval order and are
// joined with blank lines.
func BuildSystemPrompt(contextPassages []string) string {
	if len(contextPassages) == 0 {
		return systemPrompt
	}
	return systemPrompt + "\n\nRelevant information from user's profile:\n" +
		strings.Join(contextPassages, "\n\n")
}
