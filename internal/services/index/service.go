package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
)

// Invalidator is notified when a collection's document set changes, so
// derived structures (the lexical index) can drop their caches before the
// next read. Called synchronously inside the collection's write lock.
type Invalidator interface {
	Invalidate(collection string)
}

// denseIndex is the in-memory search structure for one collection: the
// embedded chunks with their vectors L2-normalized, so nearest-neighbor
// search is a plain inner product.
type denseIndex struct {
	chunks  []*models.Chunk
	vectors [][]float32
}

// Service is the persisted dense vector index. Chunks live in storage;
// per-collection normalized vector matrices are cached in memory and rebuilt
// lazily after writes.
type Service struct {
	storage   interfaces.ChunkStorage
	dimension int
	logger    arbor.ILogger

	mu           sync.Mutex
	locks        map[string]*sync.Mutex
	cache        map[string]*denseIndex
	invalidators []Invalidator
}

// NewService creates a dense index over the given chunk storage with a fixed
// embedding dimension.
func NewService(storage interfaces.ChunkStorage, dimension int, logger arbor.ILogger) *Service {
	return &Service{
		storage:   storage,
		dimension: dimension,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
		cache:     make(map[string]*denseIndex),
	}
}

// RegisterInvalidator adds a hook notified on every write to a collection.
func (s *Service) RegisterInvalidator(inv Invalidator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidators = append(s.invalidators, inv)
}

// Dimension returns the embedding dimension the index accepts.
func (s *Service) Dimension() int {
	return s.dimension
}

// Add persists chunks into a collection. Chunks whose embedding dimension
// does not match the index, or which lack an id or text, are skipped with a
// warning rather than failing the batch. Chunks with no embedding yet are
// stored as pending so the sweep can backfill them; they stay out of the
// dense matrix until embedded. Returns the number of chunks stored.
func (s *Service) Add(ctx context.Context, collection string, chunks []*models.Chunk) (int, error) {
	if collection == "" {
		return 0, fmt.Errorf("collection name is required")
	}

	lock := s.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	stored := 0
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		if chunk.ID == "" || chunk.Text == "" {
			s.logger.Warn().
				Str("collection", collection).
				Int("chunk_index", chunk.ChunkIndex).
				Msg("Skipping chunk with missing required fields")
			continue
		}
		if len(chunk.Embedding) != 0 && len(chunk.Embedding) != s.dimension {
			s.logger.Warn().
				Str("collection", collection).
				Str("chunk_id", chunk.ID).
				Int("dimension", len(chunk.Embedding)).
				Int("expected", s.dimension).
				Msg("Skipping chunk with mismatched embedding dimension")
			continue
		}

		chunk.Collection = collection
		chunk.Pending = len(chunk.Embedding) == 0

		if err := s.storage.SaveChunk(chunk); err != nil {
			return stored, fmt.Errorf("failed to persist chunk %s: %w", chunk.ID, err)
		}
		stored++
	}

	// The document set changed: drop the dense cache and notify derived
	// indexes while still holding the write lock, so no reader can observe
	// a stale index after this call returns.
	s.dropCache(collection)
	for _, inv := range s.snapshotInvalidators() {
		inv.Invalidate(collection)
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("stored", stored).
		Int("offered", len(chunks)).
		Msg("Added chunks to index")

	return stored, nil
}

// Query returns up to k chunks ordered by descending cosine similarity to
// the query vector. A missing or empty collection yields an empty slice and
// a nil error.
func (s *Service) Query(ctx context.Context, collection string, vector []float32, k int) ([]*models.SearchResult, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension %d does not match index dimension %d", len(vector), s.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	lock := s.collectionLock(collection)
	lock.Lock()
	index, err := s.loadIndex(collection)
	lock.Unlock()
	if err != nil {
		return nil, err
	}
	if index == nil || len(index.chunks) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := normalize(vector)

	results := make([]*models.SearchResult, 0, len(index.chunks))
	for i, chunk := range index.chunks {
		similarity := float64(dot(query, index.vectors[i]))
		results = append(results, &models.SearchResult{
			Chunk:      chunk,
			Score:      similarity,
			DenseScore: similarity,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Invalidate drops the cached dense matrix for a collection.
func (s *Service) Invalidate(collection string) {
	s.dropCache(collection)
}

func (s *Service) collectionLock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[collection] = lock
	}
	return lock
}

func (s *Service) dropCache(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, collection)
}

func (s *Service) snapshotInvalidators() []Invalidator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Invalidator(nil), s.invalidators...)
}

// loadIndex returns the cached dense matrix for a collection, rebuilding it
// from storage when absent. Pending and dimension-mismatched chunks are left
// out of the matrix.
func (s *Service) loadIndex(collection string) (*denseIndex, error) {
	s.mu.Lock()
	cached, ok := s.cache[collection]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	chunks, err := s.storage.GetChunksByCollection(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for dense index: %w", err)
	}

	index := &denseIndex{}
	for _, chunk := range chunks {
		if chunk.Pending || len(chunk.Embedding) == 0 {
			continue
		}
		if len(chunk.Embedding) != s.dimension {
			s.logger.Warn().
				Str("collection", collection).
				Str("chunk_id", chunk.ID).
				Int("dimension", len(chunk.Embedding)).
				Msg("Excluding stored chunk with mismatched dimension from dense index")
			continue
		}
		index.chunks = append(index.chunks, chunk)
		index.vectors = append(index.vectors, normalize(chunk.Embedding))
	}

	s.mu.Lock()
	s.cache[collection] = index
	s.mu.Unlock()

	s.logger.Debug().
		Str("collection", collection).
		Int("vectors", len(index.chunks)).
		Msg("Built dense index")

	return index, nil
}

// normalize returns the L2-normalized copy of a vector. Zero vectors come
// back unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
