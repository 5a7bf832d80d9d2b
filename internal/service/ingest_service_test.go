package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docqa/internal/chunker"
	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/vectorstore"
)

type flakyStore struct {
	*vectorstore.MemoryStore
	failures int
}

func (s *flakyStore) Upsert(ctx context.Context, items []vectorstore.Item) error {
	if s.failures > 0 {
		s.failures--
		return fmt.Errorf("store offline")
	}
	return s.MemoryStore.Upsert(ctx, items)
}

func newIngestFixture(t *testing.T, failures int) (*IngestService, *flakyStore) {
	t.Helper()
	provider, err := embedding.NewHashProvider(64)
	require.NoError(t, err)
	store := &flakyStore{MemoryStore: vectorstore.NewMemoryStore(provider), failures: failures}
	c, err := chunker.New(100, 20)
	require.NoError(t, err)
	return NewIngestService(c, store, nil), store
}

func testDocument() *model.Document {
	return &model.Document{
		ID:       "doc-1",
		Filename: "report.txt",
		Format:   "txt",
		Content:  strings.Repeat("sphinx of black quartz ", 12),
	}
}

func TestIngestIndexesChunks(t *testing.T) {
	svc, store := newIngestFixture(t, 0)
	require.NoError(t, svc.Ingest(context.Background(), testDocument()))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Greater(t, count, 0)

	results, err := store.Search(context.Background(), "sphinx of black quartz", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "doc-1", results[0].Metadata["source_id"])
	require.NotEmpty(t, model.ResultText(results[0]))
}

func TestIngestEmptyDocumentIsNoop(t *testing.T) {
	svc, store := newIngestFixture(t, 0)
	doc := testDocument()
	doc.Content = "   \n\t  "
	require.NoError(t, svc.Ingest(context.Background(), doc))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestIngestFailureParksBatchForRetry(t *testing.T) {
	svc, store := newIngestFixture(t, 1)
	require.Error(t, svc.Ingest(context.Background(), testDocument()))
	require.Equal(t, 1, svc.PendingCount())

	// store back online
	recovered, remaining := svc.RetryPending(context.Background())
	require.Equal(t, 1, recovered)
	require.Equal(t, 0, remaining)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Greater(t, count, 0)
}

func TestRetryDropsBatchAfterRepeatedFailures(t *testing.T) {
	svc, _ := newIngestFixture(t, 100)
	require.Error(t, svc.Ingest(context.Background(), testDocument()))

	for i := 0; i < maxRetryAttempts; i++ {
		svc.RetryPending(context.Background())
	}
	require.Equal(t, 0, svc.PendingCount())
}
