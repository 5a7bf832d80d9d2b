package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/ai"
	"github.com/xxxsen/docqa/internal/chunker"
	"github.com/xxxsen/docqa/internal/config"
	"github.com/xxxsen/docqa/internal/embedding"
	"github.com/xxxsen/docqa/internal/filestore"
	"github.com/xxxsen/docqa/internal/generator"
	"github.com/xxxsen/docqa/internal/handler"
	"github.com/xxxsen/docqa/internal/job"
	"github.com/xxxsen/docqa/internal/memory"
	"github.com/xxxsen/docqa/internal/middleware"
	apperrors "github.com/xxxsen/docqa/internal/pkg/errors"
	"github.com/xxxsen/docqa/internal/retriever"
	"github.com/xxxsen/docqa/internal/schedule"
	"github.com/xxxsen/docqa/internal/service"
	"github.com/xxxsen/docqa/internal/vectorstore"
	"github.com/xxxsen/docqa/internal/workflow"
)

const (
	embedCacheSize = 4096
	embedCacheTTL  = 10 * time.Minute
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "docqa",
		Short: "document question answering server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run docqa server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx := context.Background()
	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.Bool("strict", cfg.Strict),
		zap.Int("embedding_dimension", cfg.Pipeline.EmbeddingDimension),
	)

	hashProvider, err := embedding.NewHashProvider(cfg.Pipeline.EmbeddingDimension)
	if err != nil {
		return fmt.Errorf("init embedding provider: %w", err)
	}
	embedProvider := embedding.WithLRUCache(hashProvider, embedCacheSize, embedCacheTTL)

	store := vectorstore.Open(ctx, cfg.Database, embedProvider)
	storeKind := "memory"
	if pg, ok := store.(*vectorstore.PgStore); ok {
		storeKind = "pgvector"
		defer pg.Close()
	}

	strategies, err := buildStrategies(cfg)
	if err != nil {
		return err
	}
	modelTiers := len(strategies)
	strategies = append(strategies, generator.NewExtractiveStrategy())

	if cfg.Strict && storeKind != "pgvector" && modelTiers == 0 {
		return fmt.Errorf("%w: strict mode requires a reachable vector store or a configured model tier", apperrors.ErrNotReady)
	}

	docChunker, err := chunker.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.OverlapValue())
	if err != nil {
		return fmt.Errorf("init chunker: %w", err)
	}

	var files filestore.Store
	if cfg.FileStore.Type != "" {
		files, err = filestore.New(cfg.FileStore)
		if err != nil {
			return fmt.Errorf("init file store: %w", err)
		}
	}

	docRetriever := retriever.New(store, cfg.Pipeline.TopKRetrieval, cfg.Pipeline.RelevanceThreshold)
	conversation := memory.NewConversation(cfg.Pipeline.MaxMemoryItems)
	queryWorkflow := workflow.New(docRetriever, generator.New(strategies...), conversation)
	ingest := service.NewIngestService(docChunker, store, files)

	tierNames := make([]string, 0, len(strategies))
	for _, strategy := range strategies {
		tierNames = append(tierNames, strategy.Name())
	}
	fileStoreKind := ""
	if files != nil {
		fileStoreKind = files.Type()
	}

	deps := handler.RouterDeps{
		Documents: handler.NewDocumentHandler(ingest, cfg.Pipeline.MaxUploadSizeMB*1024*1024),
		Query:     handler.NewQueryHandler(queryWorkflow, docRetriever),
		Memory:    handler.NewMemoryHandler(conversation),
		Health:    handler.NewHealthHandler(store, storeKind, tierNames, fileStoreKind, ingest),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewIndexRetryJob(ingest), cfg.Jobs.IndexRetrySpec); err != nil {
		return fmt.Errorf("schedule index retry: %w", err)
	}
	if err := scheduler.AddJob(job.NewIndexStatsJob(store, storeKind), cfg.Jobs.IndexStatsSpec); err != nil {
		return fmt.Errorf("schedule index stats: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(ctx).Info("http server listening",
		zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)),
		zap.String("vector_store", storeKind),
		zap.Strings("generation_tiers", tierNames),
	)

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func buildStrategies(cfg *config.Config) ([]generator.Strategy, error) {
	citations := cfg.Pipeline.CitationsEnabled()
	var strategies []generator.Strategy
	if cfg.AI.Configured() {
		provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
		if err != nil {
			return nil, fmt.Errorf("init ai provider: %w", err)
		}
		strategies = append(strategies, generator.NewModelStrategy(
			"primary_model",
			ai.NewGenerator(provider, cfg.AI.Model),
			citations,
			aiTimeout(cfg.AI),
		))
	}
	if cfg.LocalAI.Configured() {
		provider, err := ai.NewProvider(cfg.LocalAI.Provider, cfg.LocalAI.Data)
		if err != nil {
			return nil, fmt.Errorf("init local ai provider: %w", err)
		}
		strategies = append(strategies, generator.NewModelStrategy(
			"local_model",
			ai.NewGenerator(provider, cfg.LocalAI.Model),
			citations,
			aiTimeout(cfg.LocalAI),
		))
	}
	return strategies, nil
}

func aiTimeout(cfg config.AIConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Timeout) * time.Second
}
