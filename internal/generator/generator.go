package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/model"
)

// NoDataMessage is the terminal answer when no tier could produce anything.
const NoDataMessage = "I don't have enough information in the uploaded documents to answer that question."

// Strategy is one answer-generation tier. A tier reports failure through
// its error return; the chain then moves on to the next tier.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, query string, results []model.SearchResult) (string, error)
}

// StreamStrategy is implemented by tiers that can emit partial answers.
type StreamStrategy interface {
	GenerateStream(ctx context.Context, query string, results []model.SearchResult) (<-chan string, error)
}

// Generator walks an ordered list of strategies and returns the first
// usable answer. The chain is fail-soft: tier errors and panics are logged
// and absorbed, exhaustion yields NoDataMessage, and nothing ever
// propagates to the caller.
type Generator struct {
	strategies []Strategy
}

func New(strategies ...Strategy) *Generator {
	return &Generator{strategies: strategies}
}

func (g *Generator) Generate(ctx context.Context, query string, results []model.SearchResult) string {
	logger := logutil.GetLogger(ctx)
	for i, strategy := range g.strategies {
		answer, err := g.tryStrategy(ctx, strategy, query, results)
		if err == nil && strings.TrimSpace(answer) != "" {
			logger.Info("answer generated", zap.String("tier", strategy.Name()))
			return answer
		}
		logger.Warn("generation tier failed",
			zap.Int("index", i),
			zap.String("tier", strategy.Name()),
			zap.Error(err),
		)
	}
	logger.Info("all generation tiers exhausted")
	return NoDataMessage
}

// GenerateStream returns a channel of answer fragments. The first tier
// able to start a stream wins; tiers without streaming support contribute
// their whole answer as a single fragment. The channel always produces at
// least one fragment and is closed when generation finishes or the context
// is cancelled.
func (g *Generator) GenerateStream(ctx context.Context, query string, results []model.SearchResult) <-chan string {
	logger := logutil.GetLogger(ctx)
	for i, strategy := range g.strategies {
		streamer, ok := strategy.(StreamStrategy)
		if !ok {
			continue
		}
		stream, err := streamer.GenerateStream(ctx, query, results)
		if err == nil {
			logger.Info("streaming answer", zap.String("tier", strategy.Name()))
			return stream
		}
		logger.Warn("streaming tier failed",
			zap.Int("index", i),
			zap.String("tier", strategy.Name()),
			zap.Error(err),
		)
	}
	out := make(chan string, 1)
	out <- g.Generate(ctx, query, results)
	close(out)
	return out
}

func (g *Generator) tryStrategy(ctx context.Context, strategy Strategy, query string, results []model.SearchResult) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			answer = ""
			err = fmt.Errorf("tier panic: %v", r)
		}
	}()
	return strategy.Generate(ctx, query, results)
}
