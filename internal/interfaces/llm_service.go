package interfaces

import "context"

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the narrow collaborator interface the retrieval core
// depends on: text in, vector or generated text out. Calls may block on the
// network; implementations bound every call with the configured timeout, and
// a timeout is a retryable failure, not a fatal one.
type LLMService interface {
	// Embed generates a fixed-dimension embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The returned slice
	// preserves input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Chat generates a completion from the conversation history.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is configured and reachable.
	HealthCheck(ctx context.Context) error

	// Provider returns the active chat provider name ("gemini" or "claude").
	Provider() string

	// Close releases client resources.
	Close() error
}
