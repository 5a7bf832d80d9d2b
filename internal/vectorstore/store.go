package vectorstore

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/config"
	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/model"
)

// Item is one indexable unit. Vector may be left empty, in which case the
// store embeds Text itself; items whose text is unembeddable are skipped
// with a warning rather than failing the batch.
type Item struct {
	ID       string
	Text     string
	Vector   embedding.Vector
	Metadata map[string]interface{}
}

// Store persists embeddings with metadata and answers nearest-neighbor
// queries. Re-upserting an id replaces the previous item. Search returns at
// most topK results sorted by cosine similarity descending, ties stable in
// insertion order.
type Store interface {
	Upsert(ctx context.Context, items []Item) error
	Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error)
	Delete(ctx context.Context, ids []string) error
	Get(ctx context.Context, id string) (map[string]interface{}, bool, error)
}

// Sizer is implemented by stores that can report how many items they hold.
type Sizer interface {
	Count(ctx context.Context) (int, error)
}

// Open picks the backing tier: the managed pgvector tier when configured
// and reachable, otherwise the in-process store. Remote unavailability is a
// capability degradation, not a startup failure; strict-mode readiness is
// checked by the caller.
func Open(ctx context.Context, cfg config.DatabaseConfig, provider embedding.Provider) Store {
	logger := logutil.GetLogger(ctx)
	if cfg.Configured() {
		store, err := NewPgStore(ctx, cfg, provider)
		if err == nil {
			logger.Info("using pgvector store", zap.String("table", cfg.Table))
			return store
		}
		logger.Warn("pgvector store unreachable, falling back to in-memory store", zap.Error(err))
	} else {
		logger.Info("no database configured, using in-memory store")
	}
	return NewMemoryStore(provider)
}
