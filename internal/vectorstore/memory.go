package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/model"
)

type memoryItem struct {
	id       string
	vector   embedding.Vector
	metadata map[string]interface{}
	seq      int
}

// MemoryStore keeps vectors in a process-local map and answers searches
// with a brute-force cosine scan. It is the correctness oracle for the
// remote tier and the default when none is configured. The scan is linear
// in corpus size; callers that outgrow it swap in the pgvector tier behind
// the same interface.
type MemoryStore struct {
	provider embedding.Provider

	mu    sync.RWMutex
	items map[string]*memoryItem
	seq   int
}

func NewMemoryStore(provider embedding.Provider) *MemoryStore {
	return &MemoryStore{
		provider: provider,
		items:    make(map[string]*memoryItem),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, items []Item) error {
	logger := logutil.GetLogger(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := 0
	for _, item := range items {
		vec := item.Vector
		if embedding.IsEmpty(vec) {
			vec = s.provider.Embed(item.Text)
		}
		if embedding.IsEmpty(vec) {
			logger.Warn("skipping unembeddable item", zap.String("id", item.ID))
			continue
		}
		if existing, ok := s.items[item.ID]; ok {
			existing.vector = vec
			existing.metadata = item.Metadata
		} else {
			s.items[item.ID] = &memoryItem{
				id:       item.ID,
				vector:   vec,
				metadata: item.Metadata,
				seq:      s.seq,
			}
			s.seq++
		}
		stored++
	}
	logger.Info("stored chunks in memory store", zap.Int("stored", stored), zap.Int("batch", len(items)))
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	queryVec := s.provider.Embed(query)
	if embedding.IsEmpty(queryVec) {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	type scored struct {
		result model.SearchResult
		seq    int
	}
	results := make([]scored, 0, len(s.items))
	for _, item := range s.items {
		results = append(results, scored{
			result: model.SearchResult{
				ID:       item.id,
				Score:    Cosine(queryVec, item.vector),
				Metadata: item.metadata,
			},
			seq: item.seq,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].result.Score != results[j].result.Score {
			return results[i].result.Score > results[j].result.Score
		}
		return results[i].seq < results[j].seq
	})
	if topK > len(results) {
		topK = len(results)
	}
	out := make([]model.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		out = append(out, results[i].result)
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.items, id)
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (map[string]interface{}, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, false, nil
	}
	return item.metadata, true, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

// Cosine computes cosine similarity between two vectors. Mismatched or
// zero-norm vectors score zero.
func Cosine(a, b embedding.Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
