package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
)

// Service implements the LLMService interface. Embeddings always run
// through Gemini; chat completions go to the configured default provider
// ("gemini" or "claude").
type Service struct {
	gemini   *geminiClient
	claude   *claudeClient
	provider string
	logger   arbor.ILogger
}

// NewService creates the LLM service from configuration. The Gemini client
// is mandatory (it serves embeddings); the Claude client is only built when
// it is the selected chat provider.
func NewService(config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	gemini, err := newGeminiClient(config, logger)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(strings.TrimSpace(config.LLM.DefaultProvider))
	if provider == "" {
		provider = "gemini"
	}

	svc := &Service{
		gemini:   gemini,
		provider: provider,
		logger:   logger,
	}

	switch provider {
	case "gemini":
	case "claude":
		claude, err := newClaudeClient(config, logger)
		if err != nil {
			return nil, err
		}
		svc.claude = claude
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (expected \"gemini\" or \"claude\")", provider)
	}

	logger.Info().
		Str("provider", provider).
		Str("embed_model", config.LLM.Gemini.EmbedModel).
		Int("dimension", config.Embedding.Dimension).
		Msg("LLM service initialized")

	return svc, nil
}

// Embed generates a fixed-dimension embedding for the text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.gemini.embed(ctx, text)
}

// EmbedBatch embeds each text in order. Provider batching quotas are
// handled upstream by the embedding service's rate limiter.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := s.gemini.embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Chat generates a completion using the configured provider.
func (s *Service) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if s.provider == "claude" {
		return s.claude.chat(ctx, messages)
	}
	return s.gemini.chat(ctx, messages)
}

// HealthCheck verifies the embedding path is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.gemini.healthCheck(ctx)
}

// Provider returns the active chat provider name.
func (s *Service) Provider() string {
	return s.provider
}

// Close releases client resources. The genai and anthropic clients hold no
// connections that need explicit shutdown.
func (s *Service) Close() error {
	return nil
}
