package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
	"google.golang.org/genai"
)

// geminiClient wraps the genai client for embedding and chat calls.
type geminiClient struct {
	config    *common.GeminiConfig
	client    *genai.Client
	dimension int
	timeout   time.Duration
	retry     *RetryConfig
	logger    arbor.ILogger
}

func newGeminiClient(config *common.Config, logger arbor.ILogger) (*geminiClient, error) {
	if config.LLM.Gemini.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set llm.gemini.api_key or VERBA_GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.LLM.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	return &geminiClient{
		config:    &config.LLM.Gemini,
		client:    client,
		dimension: config.Embedding.Dimension,
		timeout:   config.LLMTimeout(),
		retry:     NewDefaultRetryConfig(),
		logger:    logger,
	}, nil
}

// embed generates one fixed-dimension embedding, retrying on rate limits.
func (g *geminiClient) embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	outputDim := int32(g.dimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	var embedding []float32
	err := g.withRetry(ctx, "embed", func(callCtx context.Context) error {
		result, err := g.client.Models.EmbedContent(callCtx, g.config.EmbedModel,
			[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
		if err != nil {
			return fmt.Errorf("embedding generation failed: %w", err)
		}
		if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0].Values == nil {
			return fmt.Errorf("no embedding returned from API")
		}
		embedding = result.Embeddings[0].Values
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(embedding) != g.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", g.dimension, len(embedding))
	}
	return embedding, nil
}

// chat generates a completion from the conversation history.
func (g *geminiClient) chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	contents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.config.Temperature),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	var response string
	err = g.withRetry(ctx, "chat", func(callCtx context.Context) error {
		resp, err := g.client.Models.GenerateContent(callCtx, g.config.Model, contents, config)
		if err != nil {
			return fmt.Errorf("chat generation failed: %w", err)
		}

		var sb strings.Builder
		if resp != nil {
			for _, candidate := range resp.Candidates {
				if candidate.Content == nil {
					continue
				}
				for _, part := range candidate.Content.Parts {
					if part.Text != "" {
						sb.WriteString(part.Text)
					}
				}
				if sb.Len() > 0 {
					break
				}
			}
		}
		if sb.Len() == 0 {
			return fmt.Errorf("no response generated from chat model")
		}
		response = sb.String()
		return nil
	})
	return response, err
}

func (g *geminiClient) healthCheck(ctx context.Context) error {
	_, err := g.embed(ctx, "health check")
	return err
}

// withRetry runs the call with the per-call timeout, retrying rate-limit
// failures with backoff. Other failures surface immediately.
func (g *geminiClient) withRetry(ctx context.Context, operation string, call func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= g.retry.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		err := call(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRateLimitError(err) || attempt == g.retry.MaxRetries {
			return err
		}

		backoff := g.retry.CalculateBackoff(attempt, ExtractRetryDelay(err))
		g.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("Rate limited by Gemini API, backing off")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// convertMessagesToGemini converts conversation messages to the genai
// content format, extracting the first system message for the
// SystemInstruction parameter.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	if len(contents) == 0 {
		return nil, "", fmt.Errorf("at least one non-system message is required")
	}
	return contents, systemText, nil
}
