package embeddings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
)

// fakeLLM returns deterministic vectors and records call counts.
type fakeLLM struct {
	dimension int
	calls     int
	failAfter int // fail once this many texts have been embedded; 0 = never
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failAfter > 0 && f.calls > f.failAfter {
		return nil, errors.New("provider unavailable")
	}
	v := make([]float32, f.dimension)
	for i := range v {
		v[i] = float32(len(text)%7) + float32(i)
	}
	return v, nil
}

func (f *fakeLLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "answer", nil
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Provider() string                      { return "fake" }
func (f *fakeLLM) Close() error                          { return nil }

func testConfig(dimension int) *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Embedding.Dimension = dimension
	cfg.Embedding.RequestsPerSecond = 1000 // no throttling in tests
	cfg.Embedding.BatchSize = 4
	return cfg
}

func TestGenerateEmbedding(t *testing.T) {
	svc := NewService(&fakeLLM{dimension: 8}, testConfig(8), arbor.NewLogger())

	v, err := svc.GenerateEmbedding(context.Background(), "some transcript text")
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}
	if len(v) != 8 {
		t.Errorf("vector length = %d, want 8", len(v))
	}

	if _, err := svc.GenerateEmbedding(context.Background(), "   "); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestGenerateEmbeddingDimensionMismatch(t *testing.T) {
	// Provider returns 8-dim vectors but the service expects 16
	svc := NewService(&fakeLLM{dimension: 8}, testConfig(16), arbor.NewLogger())

	if _, err := svc.GenerateEmbedding(context.Background(), "text"); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestEmbedChunksClearsPending(t *testing.T) {
	svc := NewService(&fakeLLM{dimension: 8}, testConfig(8), arbor.NewLogger())

	var chunks []*models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, &models.Chunk{
			ID: fmt.Sprintf("c%d", i), Text: fmt.Sprintf("chunk text %d", i), Pending: true,
		})
	}

	if err := svc.EmbedChunks(context.Background(), chunks); err != nil {
		t.Fatalf("EmbedChunks failed: %v", err)
	}
	for i, c := range chunks {
		if c.Pending {
			t.Errorf("chunk %d still pending", i)
		}
		if len(c.Embedding) != 8 {
			t.Errorf("chunk %d embedding length = %d", i, len(c.Embedding))
		}
	}
}

func TestEmbedChunksProviderFailure(t *testing.T) {
	svc := NewService(&fakeLLM{dimension: 8, failAfter: 5}, testConfig(8), arbor.NewLogger())

	var chunks []*models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, &models.Chunk{
			ID: fmt.Sprintf("c%d", i), Text: fmt.Sprintf("chunk text %d", i), Pending: true,
		})
	}

	if err := svc.EmbedChunks(context.Background(), chunks); err == nil {
		t.Fatal("expected provider failure to surface")
	}

	// Chunks past the failure point stay pending for the sweep to retry
	stillPending := 0
	for _, c := range chunks {
		if c.Pending {
			stillPending++
		}
	}
	if stillPending == 0 {
		t.Error("no chunks left pending after partial failure")
	}
}

func TestServiceMetadata(t *testing.T) {
	cfg := testConfig(384)
	svc := NewService(&fakeLLM{dimension: 384}, cfg, arbor.NewLogger())

	if svc.Dimension() != 384 {
		t.Errorf("Dimension() = %d", svc.Dimension())
	}
	if svc.ModelName() != cfg.LLM.Gemini.EmbedModel {
		t.Errorf("ModelName() = %q", svc.ModelName())
	}
	if !svc.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false with healthy provider")
	}
}
