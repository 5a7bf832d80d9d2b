package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks a provider that is not configured or cannot be
// reached. The generation chain treats it like any other tier failure.
var ErrUnavailable = errors.New("ai provider unavailable")

type IProvider interface {
	Name() string
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// IStreamProvider is implemented by providers that can emit partial text.
// The returned channel closes when the stream ends; producers stop as soon
// as the context is cancelled.
type IStreamProvider interface {
	GenerateStream(ctx context.Context, model string, prompt string) (<-chan string, error)
}

type IGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type IStreamGenerator interface {
	GenerateStream(ctx context.Context, prompt string) (<-chan string, error)
}

type generator struct {
	provider IProvider
	model    string
}

func NewGenerator(p IProvider, model string) IGenerator {
	return &generator{provider: p, model: model}
}

func (g *generator) Name() string {
	return g.provider.Name()
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.provider.Generate(ctx, g.model, prompt)
}

func (g *generator) GenerateStream(ctx context.Context, prompt string) (<-chan string, error) {
	streamer, ok := g.provider.(IStreamProvider)
	if !ok {
		return nil, ErrUnavailable
	}
	return streamer.GenerateStream(ctx, g.model, prompt)
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}
