package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/docqa/internal/ai"
	"github.com/xxxsen/docqa/internal/model"
)

// ModelStrategy routes the grounded prompt to an LLM. It backs both the
// primary hosted tier and the local runtime tier; only the injected
// generator differs.
type ModelStrategy struct {
	name      string
	gen       ai.IGenerator
	citations bool
	timeout   time.Duration
}

func NewModelStrategy(name string, gen ai.IGenerator, citations bool, timeout time.Duration) *ModelStrategy {
	return &ModelStrategy{name: name, gen: gen, citations: citations, timeout: timeout}
}

func (s *ModelStrategy) Name() string {
	return s.name
}

func (s *ModelStrategy) Generate(ctx context.Context, query string, results []model.SearchResult) (string, error) {
	if s.gen == nil {
		return "", ai.ErrUnavailable
	}
	prompt, err := s.buildPrompt(query, results)
	if err != nil {
		return "", err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	answer, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("empty model response")
	}
	return answer, nil
}

func (s *ModelStrategy) GenerateStream(ctx context.Context, query string, results []model.SearchResult) (<-chan string, error) {
	if s.gen == nil {
		return nil, ai.ErrUnavailable
	}
	streamer, ok := s.gen.(ai.IStreamGenerator)
	if !ok {
		return nil, ai.ErrUnavailable
	}
	prompt, err := s.buildPrompt(query, results)
	if err != nil {
		return nil, err
	}
	return streamer.GenerateStream(ctx, prompt)
}

func (s *ModelStrategy) buildPrompt(query string, results []model.SearchResult) (string, error) {
	contextBlock := BuildContext(results, s.citations)
	if contextBlock == "" {
		return "", fmt.Errorf("no retrieved context to ground the prompt")
	}
	return BuildPrompt(query, contextBlock, s.citations), nil
}
