package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
)

// claudeClient wraps the Anthropic client for chat completions. Claude has
// no embedding endpoint, so embeddings always go through Gemini regardless
// of the chat provider.
type claudeClient struct {
	config    *common.ClaudeConfig
	client    *anthropic.Client
	timeout   time.Duration
	maxTokens int
	logger    arbor.ILogger
}

func newClaudeClient(config *common.Config, logger arbor.ILogger) (*claudeClient, error) {
	if config.LLM.Claude.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required (set llm.claude.api_key or VERBA_ANTHROPIC_API_KEY)")
	}

	maxTokens := config.LLM.Claude.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.LLM.Claude.APIKey),
	)

	return &claudeClient{
		config:    &config.LLM.Claude,
		client:    &client,
		timeout:   config.LLMTimeout(),
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// chat generates a completion from the conversation history.
func (c *claudeClient) chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	claudeMessages, systemText, err := convertMessagesToClaude(messages)
	if err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.maxTokens),
		Messages:  claudeMessages,
	}
	if c.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.config.Temperature))
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}
	return response.String(), nil
}

// convertMessagesToClaude converts conversation messages to the Anthropic
// format, extracting the first system message for the System parameter.
func convertMessagesToClaude(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	if len(claudeMessages) == 0 {
		return nil, "", fmt.Errorf("at least one non-system message is required")
	}
	return claudeMessages, systemText, nil
}
