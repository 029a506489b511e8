package lexical

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
)

// Result is one lexical match: a chunk id with its positive BM25 score.
type Result struct {
	ChunkID string
	Score   float64
}

type collectionIndex struct {
	bm25 *BM25
	ids  []string
}

// Manager builds and caches one BM25 index per collection, lazily, from the
// chunks currently in storage. A cached index is only trusted until the
// collection changes; every write path must call Invalidate so the next
// query rebuilds. A stale index is a correctness bug, not an approximation.
type Manager struct {
	storage interfaces.ChunkStorage
	logger  arbor.ILogger

	mu    sync.Mutex
	cache map[string]*collectionIndex
}

// NewManager creates a lexical index manager over the given chunk storage.
func NewManager(storage interfaces.ChunkStorage, logger arbor.ILogger) *Manager {
	return &Manager{
		storage: storage,
		logger:  logger,
		cache:   make(map[string]*collectionIndex),
	}
}

// Query scores the question against the collection's BM25 index and returns
// up to k positive-scoring chunk ids, best first. An empty collection yields
// an empty result, not an error.
func (m *Manager) Query(collection, query string, k int) ([]Result, error) {
	index, err := m.get(collection)
	if err != nil {
		return nil, err
	}
	if index == nil || len(index.ids) == 0 {
		return nil, nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores := index.bm25.Scores(tokens)

	results := make([]Result, 0, len(scores))
	for i, score := range scores {
		if score > 0 {
			results = append(results, Result{ChunkID: index.ids[i], Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Invalidate drops the cached index for a collection. Called whenever chunks
// are added so the next query rebuilds from the current document set.
func (m *Manager) Invalidate(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cache[collection]; ok {
		delete(m.cache, collection)
		m.logger.Debug().Str("collection", collection).Msg("Invalidated lexical index")
	}
}

// get returns the cached index for the collection, building it on first use.
func (m *Manager) get(collection string) (*collectionIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index, ok := m.cache[collection]; ok {
		return index, nil
	}

	chunks, err := m.storage.GetChunksByCollection(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for lexical index: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	corpus := make([][]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		corpus[i] = tokenize(chunk.Text)
		ids[i] = chunk.ID
	}

	index := &collectionIndex{bm25: NewBM25(corpus), ids: ids}
	m.cache[collection] = index

	m.logger.Debug().
		Str("collection", collection).
		Int("documents", len(ids)).
		Msg("Built lexical index")

	return index, nil
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
