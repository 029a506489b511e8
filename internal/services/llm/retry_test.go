package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/verba/internal/interfaces"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 429, Message: quota exceeded"), true},
		{errors.New("RESOURCE_EXHAUSTED: try later"), true},
		{errors.New("quota exceeded for model"), true},
		{errors.New("connection refused"), false},
		{errors.New("invalid API key"), false},
	}

	for _, tt := range tests {
		if got := IsRateLimitError(tt.err); got != tt.want {
			t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		errText string
		want    time.Duration
	}{
		{"Error 429. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED", time.Duration(45.387061394 * float64(time.Second))},
		{"retryDelay: 30s", 30 * time.Second},
		{"no delay mentioned here", 0},
	}

	for _, tt := range tests {
		if got := ExtractRetryDelay(errors.New(tt.errText)); got != tt.want {
			t.Errorf("ExtractRetryDelay(%q) = %v, want %v", tt.errText, got, tt.want)
		}
	}
	if got := ExtractRetryDelay(nil); got != 0 {
		t.Errorf("ExtractRetryDelay(nil) = %v, want 0", got)
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    10 * time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2,
	}

	if got := cfg.CalculateBackoff(0, 0); got != 10*time.Second {
		t.Errorf("attempt 0 backoff = %v, want 10s", got)
	}
	if got := cfg.CalculateBackoff(1, 0); got != 20*time.Second {
		t.Errorf("attempt 1 backoff = %v, want 20s", got)
	}
	// Capped at MaxBackoff
	if got := cfg.CalculateBackoff(5, 0); got != 60*time.Second {
		t.Errorf("attempt 5 backoff = %v, want cap 60s", got)
	}
	// API-provided delay takes precedence over the initial backoff
	if got := cfg.CalculateBackoff(0, 30*time.Second); got != 31*time.Second {
		t.Errorf("api delay backoff = %v, want 31s", got)
	}
}

func TestConvertMessagesToGemini(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}

	contents, system, err := convertMessagesToGemini(messages)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if system != "be helpful" {
		t.Errorf("system = %q", system)
	}
	if len(contents) != 2 {
		t.Errorf("got %d contents, want 2 (system excluded)", len(contents))
	}

	if _, _, err := convertMessagesToGemini(nil); err == nil {
		t.Error("expected error for empty messages")
	}
	if _, _, err := convertMessagesToGemini([]interfaces.Message{{Role: "system", Content: "only system"}}); err == nil {
		t.Error("expected error when only system messages are present")
	}
}

func TestConvertMessagesToClaude(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "question"},
	}

	claudeMessages, system, err := convertMessagesToClaude(messages)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if system != "be terse" {
		t.Errorf("system = %q", system)
	}
	if len(claudeMessages) != 1 {
		t.Errorf("got %d messages, want 1", len(claudeMessages))
	}
}
