package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	Strict      bool             `json:"strict"`
	CORSOrigins []string         `json:"cors_origins"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Pipeline    PipelineConfig   `json:"pipeline"`
	Database    DatabaseConfig   `json:"database"`
	AI          AIConfig         `json:"ai"`
	LocalAI     AIConfig         `json:"local_ai"`
	FileStore   FileStoreConfig  `json:"file_store"`
	Jobs        JobsConfig       `json:"jobs"`
}

// PipelineConfig carries the knobs of the retrieval pipeline. Values are
// resolved once at load time and passed into constructors; nothing reads
// them through a global.
type PipelineConfig struct {
	ChunkSize          int     `json:"chunk_size"`
	ChunkOverlap       *int    `json:"chunk_overlap"`
	EmbeddingDimension int     `json:"embedding_dimension"`
	TopKRetrieval      int     `json:"top_k_retrieval"`
	RelevanceThreshold float64 `json:"relevance_threshold"`
	MaxMemoryItems     int     `json:"max_memory_items"`
	Citations          *bool   `json:"citations"`
	MaxUploadSizeMB    int64   `json:"max_upload_size_mb"`
}

const defaultChunkOverlap = 200

// OverlapValue resolves the chunk overlap: an absent field takes the
// default when it fits the chunk size, an explicit zero stays zero.
func (p PipelineConfig) OverlapValue() int {
	if p.ChunkOverlap == nil {
		if p.ChunkSize > defaultChunkOverlap {
			return defaultChunkOverlap
		}
		return 0
	}
	return *p.ChunkOverlap
}

func (p PipelineConfig) CitationsEnabled() bool {
	if p.Citations == nil {
		return true
	}
	return *p.Citations
}

// DatabaseConfig points at the managed vector tier (Postgres with the
// pgvector extension). Empty DSN and host mean the tier is not configured
// and the in-process store is used instead.
type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
	Table    string `json:"table"`
}

func (d DatabaseConfig) Configured() bool {
	return d.DSN != "" || d.Host != ""
}

type AIConfig struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Timeout  int         `json:"timeout"`
	Data     interface{} `json:"data"`
}

func (a AIConfig) Configured() bool {
	return a.Provider != ""
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type JobsConfig struct {
	IndexRetrySpec string `json:"index_retry_spec"`
	IndexStatsSpec string `json:"index_stats_spec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	applyPipelineDefaults(&cfg.Pipeline)
	if overlap := cfg.Pipeline.OverlapValue(); overlap < 0 || overlap >= cfg.Pipeline.ChunkSize {
		return nil, fmt.Errorf("pipeline.chunk_overlap must be in [0, chunk_size), got %d", overlap)
	}
	if cfg.Database.Configured() && cfg.Database.DSN == "" {
		if cfg.Database.User == "" || cfg.Database.DBName == "" {
			return nil, fmt.Errorf("database.user and database.db_name are required when database.host is set")
		}
	}
	if cfg.Database.Table == "" {
		cfg.Database.Table = "doc_chunks"
	}
	if cfg.Jobs.IndexRetrySpec == "" {
		cfg.Jobs.IndexRetrySpec = "*/5 * * * *"
	}
	if cfg.Jobs.IndexStatsSpec == "" {
		cfg.Jobs.IndexStatsSpec = "0 * * * *"
	}
	return &cfg, nil
}

func applyPipelineDefaults(p *PipelineConfig) {
	if p.ChunkSize <= 0 {
		p.ChunkSize = 1000
	}
	if p.EmbeddingDimension <= 0 {
		p.EmbeddingDimension = 1536
	}
	if p.TopKRetrieval <= 0 {
		p.TopKRetrieval = 5
	}
	if p.RelevanceThreshold <= 0 {
		p.RelevanceThreshold = 0.5
	}
	if p.MaxMemoryItems <= 0 {
		p.MaxMemoryItems = 200
	}
	if p.MaxUploadSizeMB <= 0 {
		p.MaxUploadSizeMB = 50
	}
}
