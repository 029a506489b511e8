package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/models"
)

// memoryChunkStorage is an in-memory ChunkStorage for index tests.
type memoryChunkStorage struct {
	mu     sync.Mutex
	chunks map[string]*models.Chunk
}

func newMemoryChunkStorage() *memoryChunkStorage {
	return &memoryChunkStorage{chunks: make(map[string]*models.Chunk)}
}

func (m *memoryChunkStorage) SaveChunk(chunk *models.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[chunk.ID] = chunk
	return nil
}

func (m *memoryChunkStorage) SaveChunks(chunks []*models.Chunk) error {
	for _, c := range chunks {
		if err := m.SaveChunk(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryChunkStorage) GetChunk(id string) (*models.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chunks[id]
	if !ok {
		return nil, fmt.Errorf("chunk not found: %s", id)
	}
	return c, nil
}

func (m *memoryChunkStorage) GetChunksByCollection(collection string) ([]*models.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Chunk
	for _, c := range m.chunks {
		if c.Collection == collection {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

func (m *memoryChunkStorage) GetPendingChunks(limit int) ([]*models.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Chunk
	for _, c := range m.chunks {
		if c.Pending {
			out = append(out, c)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memoryChunkStorage) CountChunks(collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.chunks {
		if c.Collection == collection {
			n++
		}
	}
	return n, nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingInvalidator) Invalidate(collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, collection)
}

func newTestService() (*Service, *memoryChunkStorage) {
	storage := newMemoryChunkStorage()
	return NewService(storage, 3, arbor.NewLogger()), storage
}

func chunkWithVector(id string, index int, v []float32) *models.Chunk {
	return &models.Chunk{ID: id, ChunkIndex: index, Text: "text for " + id, Embedding: v}
}

func TestAddAndQueryRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	stored, err := svc.Add(ctx, "video_aaa", []*models.Chunk{
		chunkWithVector("c0", 0, []float32{1, 0, 0}),
		chunkWithVector("c1", 1, []float32{0, 1, 0}),
		chunkWithVector("c2", 2, []float32{0.7, 0.7, 0}),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if stored != 3 {
		t.Fatalf("stored = %d, want 3", stored)
	}

	// Querying with a stored vector returns that chunk first with
	// similarity ~1.0
	results, err := svc.Query(ctx, "video_aaa", []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Chunk.ID != "c0" {
		t.Errorf("top result = %s, want c0", results[0].Chunk.ID)
	}
	if math.Abs(results[0].Score-1.0) > 1e-5 {
		t.Errorf("round-trip similarity = %v, want ~1.0", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending order: %v then %v", results[i-1].Score, results[i].Score)
		}
	}
}

func TestQueryRespectsK(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var chunks []*models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunkWithVector(fmt.Sprintf("c%d", i), i, []float32{float32(i + 1), 1, 0}))
	}
	if _, err := svc.Add(ctx, "video_aaa", chunks); err != nil {
		t.Fatal(err)
	}

	results, err := svc.Query(ctx, "video_aaa", []float32{1, 0, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want k=4", len(results))
	}
}

func TestQueryMissingCollection(t *testing.T) {
	svc, _ := newTestService()

	results, err := svc.Query(context.Background(), "video_missing", []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("missing collection returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("missing collection returned %d results", len(results))
	}
}

func TestQueryDimensionMismatch(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Query(context.Background(), "video_aaa", []float32{1, 0}, 5); err == nil {
		t.Error("expected error for wrong query dimension")
	}
}

func TestAddSkipsInvalidChunks(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	stored, err := svc.Add(ctx, "video_aaa", []*models.Chunk{
		chunkWithVector("good", 0, []float32{1, 0, 0}),
		chunkWithVector("bad-dim", 1, []float32{1, 0}),
		{ID: "", ChunkIndex: 2, Text: "no id", Embedding: []float32{0, 1, 0}},
		{ID: "no-text", ChunkIndex: 3, Embedding: []float32{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if stored != 1 {
		t.Errorf("stored = %d, want 1 (invalid chunks skipped)", stored)
	}

	count, _ := storage.CountChunks("video_aaa")
	if count != 1 {
		t.Errorf("persisted %d chunks, want 1", count)
	}
}

func TestAddPersistsPendingChunksOutOfMatrix(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	stored, err := svc.Add(ctx, "video_aaa", []*models.Chunk{
		chunkWithVector("embedded", 0, []float32{1, 0, 0}),
		{ID: "pending", ChunkIndex: 1, Text: "not embedded yet"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if stored != 2 {
		t.Errorf("stored = %d, want 2 (pending chunk persisted)", stored)
	}

	pending, err := storage.GetPendingChunks(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != "pending" {
		t.Errorf("pending chunks = %v", pending)
	}

	// Pending chunk is persisted but not searchable yet
	results, err := svc.Query(ctx, "video_aaa", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "embedded" {
		t.Errorf("query returned %d results, want only the embedded chunk", len(results))
	}
}

func TestAddTwiceGrowsCollection(t *testing.T) {
	svc, storage := newTestService()
	ctx := context.Background()

	batch := func(prefix string, offset int) []*models.Chunk {
		var chunks []*models.Chunk
		for i := 0; i < 10; i++ {
			chunks = append(chunks, chunkWithVector(fmt.Sprintf("%s-%d", prefix, i), offset+i, []float32{float32(i), 1, 2}))
		}
		return chunks
	}

	if _, err := svc.Add(ctx, "video_aaa", batch("first", 0)); err != nil {
		t.Fatal(err)
	}
	// Warm the cache, then append a second batch
	if _, err := svc.Query(ctx, "video_aaa", []float32{1, 1, 1}, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, "video_aaa", batch("second", 10)); err != nil {
		t.Fatal(err)
	}

	count, _ := storage.CountChunks("video_aaa")
	if count != 20 {
		t.Errorf("collection holds %d chunks after two adds, want 20", count)
	}

	results, err := svc.Query(ctx, "video_aaa", []float32{1, 1, 1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 20 {
		t.Errorf("query sees %d chunks after second add, want 20", len(results))
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Add(ctx, "video_aaa", []*models.Chunk{chunkWithVector("a", 0, []float32{1, 0, 0})})
	svc.Add(ctx, "video_bbb", []*models.Chunk{chunkWithVector("b", 0, []float32{1, 0, 0})})

	results, err := svc.Query(ctx, "video_aaa", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "a" {
		t.Errorf("collection isolation violated: %v", results)
	}
}

func TestAddNotifiesInvalidators(t *testing.T) {
	svc, _ := newTestService()
	rec := &recordingInvalidator{}
	svc.RegisterInvalidator(rec)

	svc.Add(context.Background(), "video_aaa", []*models.Chunk{chunkWithVector("a", 0, []float32{1, 0, 0})})

	if len(rec.calls) != 1 || rec.calls[0] != "video_aaa" {
		t.Errorf("invalidator calls = %v, want [video_aaa]", rec.calls)
	}
}
