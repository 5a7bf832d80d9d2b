package retriever

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/vectorstore"
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "in": {}, "on": {}, "at": {},
}

// Retriever answers queries against a vector store and decides when a
// retrieval is weak enough to deserve a single refined retry.
type Retriever struct {
	store     vectorstore.Store
	topK      int
	threshold float64
}

func New(store vectorstore.Store, topK int, threshold float64) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Retriever{store: store, topK: topK, threshold: threshold}
}

// Retrieve delegates to the store. Store failures have already been
// degraded to empty result sets, so an empty slice is a normal outcome.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) []model.SearchResult {
	k := topK
	if k <= 0 {
		k = r.topK
	}
	logger := logutil.GetLogger(ctx)
	results, err := r.store.Search(ctx, query, k)
	if err != nil {
		logger.Warn("retrieval failed, treating as empty", zap.Error(err))
		return nil
	}
	logger.Info("retrieved documents", zap.Int("k", k), zap.Int("results", len(results)))
	return results
}

// RetrieveWithFilter keeps only results whose metadata matches every
// filter key by exact equality. Filtering runs after the ranked search and
// can only shrink the result set, never reorder it.
func (r *Retriever) RetrieveWithFilter(ctx context.Context, query string, filters map[string]interface{}, topK int) []model.SearchResult {
	results := r.Retrieve(ctx, query, topK)
	if len(filters) == 0 {
		return results
	}
	filtered := make([]model.SearchResult, 0, len(results))
	for _, result := range results {
		if matchesFilters(result.Metadata, filters) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func matchesFilters(metadata, filters map[string]interface{}) bool {
	for key, want := range filters {
		if metadata == nil || metadata[key] != want {
			return false
		}
	}
	return true
}

// NeedsRefinement reports whether the retrieval came back empty or with a
// mean score below the relevance threshold.
func (r *Retriever) NeedsRefinement(query string, results []model.SearchResult) bool {
	if len(results) == 0 {
		return true
	}
	var total float64
	for _, result := range results {
		total += result.Score
	}
	return total/float64(len(results)) < r.threshold
}

// Refine strips stop words from the query and rejoins the remaining
// tokens. A query made entirely of stop words comes back unchanged. The
// orchestrator applies at most one refinement per user query.
func (r *Retriever) Refine(query string, results []model.SearchResult) string {
	words := strings.Fields(query)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return query
	}
	return strings.Join(kept, " ")
}
