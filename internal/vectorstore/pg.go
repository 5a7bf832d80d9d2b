package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/config"
	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/pkg/dbutil"
)

// PgStore is the managed similarity-search tier: Postgres with the pgvector
// extension, reached over the network. Embeddings are computed locally by
// the provider before transmission. Search degrades to an empty result set
// when the database cannot be reached; only construction surfaces
// connectivity errors so the caller can fall back to the in-memory tier.
type PgStore struct {
	db       *sqlx.DB
	provider embedding.Provider
	table    string
}

func NewPgStore(ctx context.Context, cfg config.DatabaseConfig, provider embedding.Provider) (*PgStore, error) {
	dsn := cfg.DSN
	if dsn == "" {
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslmode)
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect vector database: %w", err)
	}
	store := &PgStore{db: db, provider: provider, table: cfg.Table}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare vector schema: %w", err)
	}
	return store, nil
}

func (s *PgStore) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			embedding VECTOR(%d) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb
		)`, s.table, s.provider.Dimension()),
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PgStore) Upsert(ctx context.Context, items []Item) error {
	logger := logutil.GetLogger(ctx)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, embedding, metadata)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata
	`, s.table)
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
		meta, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", item.ID, err)
		}
		if _, err := s.db.ExecContext(ctx, query, item.ID, pgvector.NewVector([]float32(vec)), meta); err != nil {
			return fmt.Errorf("upsert %s: %w", item.ID, err)
		}
		stored++
	}
	logger.Info("stored chunks in pgvector store", zap.Int("stored", stored), zap.Int("batch", len(items)))
	return nil
}

func (s *PgStore) Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	logger := logutil.GetLogger(ctx)
	if topK <= 0 {
		topK = 5
	}
	queryVec := s.provider.Embed(query)
	if embedding.IsEmpty(queryVec) {
		return nil, nil
	}
	stmt := fmt.Sprintf(`
		SELECT id, 1 - (embedding <=> $1) AS score, metadata
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, s.table)
	rows, err := s.db.QueryContext(ctx, stmt, pgvector.NewVector([]float32(queryVec)), topK)
	if err != nil {
		logger.Warn("pgvector search failed, returning empty results", zap.Error(err))
		return nil, nil
	}
	defer rows.Close()
	var results []model.SearchResult
	for rows.Next() {
		var (
			item model.SearchResult
			meta []byte
		)
		if err := rows.Scan(&item.ID, &item.Score, &meta); err != nil {
			logger.Warn("pgvector row scan failed, returning empty results", zap.Error(err))
			return nil, nil
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &item.Metadata); err != nil {
				logger.Warn("decode result metadata failed", zap.String("id", item.ID), zap.Error(err))
			}
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("pgvector search failed, returning empty results", zap.Error(err))
		return nil, nil
	}
	return results, nil
}

func (s *PgStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	where := map[string]interface{}{
		"id in": ids,
	}
	stmt, args, err := builder.BuildDelete(s.table, where)
	if err != nil {
		return err
	}
	stmt, args = dbutil.Finalize(stmt, args)
	_, err = s.db.ExecContext(ctx, stmt, args...)
	return err
}

func (s *PgStore) Get(ctx context.Context, id string) (map[string]interface{}, bool, error) {
	where := map[string]interface{}{
		"id": id,
	}
	stmt, args, err := builder.BuildSelect(s.table, where, []string{"metadata"})
	if err != nil {
		return nil, false, err
	}
	stmt, args = dbutil.Finalize(stmt, args)
	var meta []byte
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&meta); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	metadata := map[string]interface{}{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &metadata); err != nil {
			return nil, false, err
		}
	}
	return metadata, true, nil
}

func (s *PgStore) Count(ctx context.Context) (int, error) {
	stmt := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	var count int
	if err := s.db.QueryRowContext(ctx, stmt).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *PgStore) Close() error {
	return s.db.Close()
}
