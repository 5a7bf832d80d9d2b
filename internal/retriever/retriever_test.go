package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/vectorstore"
)

func newTestRetriever(t *testing.T) (*Retriever, vectorstore.Store) {
	t.Helper()
	provider, err := embedding.NewHashProvider(32)
	require.NoError(t, err)
	store := vectorstore.NewMemoryStore(provider)
	return New(store, 5, 0.5), store
}

func resultsWithScores(scores ...float64) []model.SearchResult {
	out := make([]model.SearchResult, 0, len(scores))
	for i, s := range scores {
		out = append(out, model.SearchResult{ID: string(rune('a' + i)), Score: s})
	}
	return out
}

func TestNeedsRefinement(t *testing.T) {
	r, _ := newTestRetriever(t)

	require.True(t, r.NeedsRefinement("q", nil))
	require.False(t, r.NeedsRefinement("q", resultsWithScores(0.8, 0.8, 0.8)))
	require.True(t, r.NeedsRefinement("q", resultsWithScores(0.3, 0.3, 0.3)))
	// mean exactly at threshold is good enough
	require.False(t, r.NeedsRefinement("q", resultsWithScores(0.5, 0.5)))
}

func TestRefine_StripsStopWords(t *testing.T) {
	r, _ := newTestRetriever(t)

	require.Equal(t, "what capital of France", r.Refine("what is the capital of France", nil))
	require.Equal(t, "report published", r.Refine("The report was published", nil))
}

func TestRefine_AllStopWordsUnchanged(t *testing.T) {
	r, _ := newTestRetriever(t)
	require.Equal(t, "the a an", r.Refine("the a an", nil))
}

func TestRetrieveWithFilter(t *testing.T) {
	r, store := newTestRetriever(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []vectorstore.Item{
		{ID: "1", Text: "shared topic text", Metadata: map[string]interface{}{"source_doc": "a.txt"}},
		{ID: "2", Text: "shared topic words", Metadata: map[string]interface{}{"source_doc": "b.txt"}},
	})
	require.NoError(t, err)

	all := r.RetrieveWithFilter(ctx, "shared topic", nil, 5)
	require.Len(t, all, 2)

	filtered := r.RetrieveWithFilter(ctx, "shared topic", map[string]interface{}{"source_doc": "a.txt"}, 5)
	require.Len(t, filtered, 1)
	require.Equal(t, "1", filtered[0].ID)

	none := r.RetrieveWithFilter(ctx, "shared topic", map[string]interface{}{"source_doc": "missing.txt"}, 5)
	require.Empty(t, none)
}

func TestRetrieve_EmptyStore(t *testing.T) {
	r, _ := newTestRetriever(t)
	require.Empty(t, r.Retrieve(context.Background(), "anything", 3))
}
