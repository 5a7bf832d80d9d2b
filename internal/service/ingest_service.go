package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/chunker"
	"github.com/xxxsen/docqa/internal/filestore"
	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/vectorstore"
)

const maxRetryAttempts = 5

type failedBatch struct {
	documentID string
	items      []vectorstore.Item
	attempts   int
}

// IngestService turns documents into indexed chunks. Indexing runs off
// the request path, so an upload is accepted before its chunks are
// searchable. A batch that fails to upsert is parked for the retry job;
// re-upserting is idempotent because items replace by id.
type IngestService struct {
	chunker *chunker.Chunker
	store   vectorstore.Store
	files   filestore.Store

	mu     sync.Mutex
	failed []failedBatch
}

func NewIngestService(c *chunker.Chunker, store vectorstore.Store, files filestore.Store) *IngestService {
	return &IngestService{chunker: c, store: store, files: files}
}

// Ingest chunks and indexes one document synchronously.
func (s *IngestService) Ingest(ctx context.Context, doc *model.Document) error {
	logger := logutil.GetLogger(ctx)
	chunks := s.chunker.Chunk(ctx, doc.Content, doc.ID)
	if len(chunks) == 0 {
		logger.Warn("document produced no chunks", zap.String("document_id", doc.ID))
		return nil
	}
	items := buildItems(doc, chunks)
	if err := s.store.Upsert(ctx, items); err != nil {
		s.park(doc.ID, items)
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	logger.Info("document indexed",
		zap.String("document_id", doc.ID),
		zap.Int("chunks", len(items)),
	)
	return nil
}

// IngestAsync schedules indexing in the background. Callers observing
// search results immediately after upload may not see the document yet.
func (s *IngestService) IngestAsync(doc *model.Document) {
	go func() {
		ctx := context.Background()
		if err := s.Ingest(ctx, doc); err != nil {
			logutil.GetLogger(ctx).Error("background indexing failed",
				zap.String("document_id", doc.ID),
				zap.Error(err),
			)
		}
	}()
}

// Archive stores the raw uploaded file when a file store is configured.
func (s *IngestService) Archive(ctx context.Context, doc *model.Document, r filestore.ReadSeekCloser, size int64) error {
	if s.files == nil {
		return nil
	}
	return s.files.Save(ctx, filestore.ArchiveKey(doc.ID, doc.Filename), r, size)
}

// RetryPending re-upserts parked batches. Batches that keep failing are
// dropped after maxRetryAttempts.
func (s *IngestService) RetryPending(ctx context.Context) (recovered int, remaining int) {
	s.mu.Lock()
	batches := s.failed
	s.failed = nil
	s.mu.Unlock()

	logger := logutil.GetLogger(ctx)
	for _, batch := range batches {
		if err := s.store.Upsert(ctx, batch.items); err != nil {
			batch.attempts++
			if batch.attempts >= maxRetryAttempts {
				logger.Error("dropping batch after repeated failures",
					zap.String("document_id", batch.documentID),
					zap.Int("attempts", batch.attempts),
				)
				continue
			}
			s.mu.Lock()
			s.failed = append(s.failed, batch)
			s.mu.Unlock()
			continue
		}
		recovered++
		logger.Info("recovered failed batch", zap.String("document_id", batch.documentID))
	}

	s.mu.Lock()
	remaining = len(s.failed)
	s.mu.Unlock()
	return recovered, remaining
}

func (s *IngestService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failed)
}

func (s *IngestService) park(documentID string, items []vectorstore.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, failedBatch{documentID: documentID, items: items, attempts: 1})
}

func buildItems(doc *model.Document, chunks []model.Chunk) []vectorstore.Item {
	items := make([]vectorstore.Item, 0, len(chunks))
	for _, chunk := range chunks {
		items = append(items, vectorstore.Item{
			ID:   fmt.Sprintf("%s_%d", doc.ID, chunk.Index),
			Text: chunk.Text,
			Metadata: map[string]interface{}{
				"text":         chunk.Text,
				"source_id":    doc.ID,
				"filename":     doc.Filename,
				"format":       doc.Format,
				"chunk_index":  chunk.Index,
				"start_offset": chunk.Metadata.StartOffset,
				"end_offset":   chunk.Metadata.EndOffset,
			},
		})
	}
	return items
}
