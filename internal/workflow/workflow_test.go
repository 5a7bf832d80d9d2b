package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/generator"
	"github.com/xxxsen/docqa/internal/memory"
	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/retriever"
	"github.com/xxxsen/docqa/internal/vectorstore"
)

type fixedStrategy struct {
	answer    string
	calls     int
	lastQuery string
}

func (s *fixedStrategy) Name() string { return "fixed" }

func (s *fixedStrategy) Generate(ctx context.Context, query string, results []model.SearchResult) (string, error) {
	s.calls++
	s.lastQuery = query
	return s.answer, nil
}

func newTestWorkflow(t *testing.T, texts []string, strategies ...generator.Strategy) *Workflow {
	t.Helper()
	provider, err := embedding.NewHashProvider(64)
	require.NoError(t, err)
	store := vectorstore.NewMemoryStore(provider)
	for i, text := range texts {
		require.NoError(t, store.Upsert(context.Background(), []vectorstore.Item{
			{ID: string(rune('a' + i)), Text: text},
		}))
	}
	return New(retriever.New(store, 5, 0.5), generator.New(strategies...), memory.NewConversation(10))
}

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"What is the capital of France?", IntentFactual},
		{"which version is installed", IntentFactual},
		{"Who wrote this module?", IntentFactual},
		{"why does the service restart", IntentExplanatory},
		{"How do I configure logging?", IntentExplanatory},
		{"summarize the document", IntentSummarization},
		{"give me a summary", IntentSummarization},
		{"tell me about the project", IntentGeneral},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyIntent(tc.query), tc.query)
	}
}

func TestProcessCompletes(t *testing.T) {
	query := "what is the capital of France"
	strategy := &fixedStrategy{answer: "Paris"}
	w := newTestWorkflow(t, []string{query}, strategy)

	res := w.Process(context.Background(), query)
	require.Equal(t, StateCompleted, res.State)
	require.Equal(t, IntentFactual, res.Intent)
	require.Equal(t, "Paris", res.Answer)
	require.False(t, res.Refined)
	require.NotEmpty(t, res.Sources)
	require.Equal(t, 1, strategy.calls)

	hist := w.Memory().History()
	require.Len(t, hist, 1)
	require.Equal(t, query, hist[0].Query)
	require.Equal(t, "Paris", hist[0].Response)
}

func TestProcessRefinesWeakRetrieval(t *testing.T) {
	// empty store: first retrieval is empty, so a refined retry runs
	w := newTestWorkflow(t, nil)

	res := w.Process(context.Background(), "what is the capital of France")
	require.Equal(t, StateCompleted, res.State)
	require.True(t, res.Refined)
	require.Equal(t, generator.NoDataMessage, res.Answer)
	require.Equal(t, 1, w.Memory().Len())
}

func TestProcessGeneratesWithOriginalQuery(t *testing.T) {
	// refinement rewrites the retrieval query, but the answer is still
	// generated against the words the user submitted
	query := "what is the capital of France"
	strategy := &fixedStrategy{answer: "Paris"}
	w := newTestWorkflow(t, nil, strategy)

	res := w.Process(context.Background(), query)
	require.True(t, res.Refined)
	require.Equal(t, query, strategy.lastQuery)
	require.Equal(t, query, w.Memory().History()[0].Query)
}

func TestProcessRecoversFromUnexpectedFailure(t *testing.T) {
	w := &Workflow{generator: generator.New(), memory: memory.NewConversation(10)}

	res := w.Process(context.Background(), "anything")
	require.Equal(t, StateError, res.State)
	require.Equal(t, ErrorMessage, res.Answer)
	require.Equal(t, 0, w.Memory().Len())
}

func TestProcessStream(t *testing.T) {
	query := "what is the capital of France"
	w := newTestWorkflow(t, []string{query}, &fixedStrategy{answer: "Paris"})

	var sb strings.Builder
	for fragment := range w.ProcessStream(context.Background(), query) {
		sb.WriteString(fragment)
	}
	require.Equal(t, "Paris", sb.String())

	hist := w.Memory().History()
	require.Len(t, hist, 1)
	require.Equal(t, "Paris", hist[0].Response)
}
