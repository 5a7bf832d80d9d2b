package workflow

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/generator"
	"github.com/xxxsen/docqa/internal/memory"
	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/retriever"
)

// State tracks where a query is in the pipeline.
type State string

const (
	StateAnalyzing  State = "analyzing"
	StateRetrieving State = "retrieving"
	StateRefining   State = "refining"
	StateGenerating State = "generating"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// Intent is the coarse query classification used for logging and the
// extractive tier's summarization detection.
type Intent string

const (
	IntentFactual       Intent = "factual"
	IntentExplanatory   Intent = "explanatory"
	IntentSummarization Intent = "summarization"
	IntentGeneral       Intent = "general"
)

// ErrorMessage is the only answer a caller sees for an unexpected
// pipeline failure. The real cause goes to the server log.
const ErrorMessage = "error processing query"

// Result is the outcome of one query run.
type Result struct {
	Answer  string               `json:"answer"`
	Intent  Intent               `json:"intent"`
	State   State                `json:"state"`
	Refined bool                 `json:"refined"`
	Sources []model.SearchResult `json:"sources,omitempty"`
}

// Workflow sequences analysis, retrieval, optional refinement and
// generation for a single query, then records the exchange. Expected
// degradations (empty store, dead model) are handled inside the retriever
// and generator; only a genuinely unexpected failure reaches the Error
// state here.
type Workflow struct {
	retriever *retriever.Retriever
	generator *generator.Generator
	memory    *memory.Conversation
}

func New(r *retriever.Retriever, g *generator.Generator, m *memory.Conversation) *Workflow {
	if m == nil {
		m = memory.NewConversation(0)
	}
	return &Workflow{retriever: r, generator: g, memory: m}
}

func (w *Workflow) Memory() *memory.Conversation {
	return w.memory
}

// Process runs the full pipeline for one query. It never returns an
// error: failures are converted to the generic error answer.
func (w *Workflow) Process(ctx context.Context, query string) (res *Result) {
	logger := logutil.GetLogger(ctx)
	res = &Result{State: StateAnalyzing}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("query processing failed",
				zap.String("state", string(res.State)),
				zap.Any("panic", r),
			)
			res.State = StateError
			res.Answer = ErrorMessage
		}
	}()

	res.Intent = ClassifyIntent(query)
	logger.Info("query analyzed", zap.String("intent", string(res.Intent)))

	res.State = StateRetrieving
	results := w.retriever.Retrieve(ctx, query, 0)
	if w.retriever.NeedsRefinement(query, results) {
		if refined := w.retriever.Refine(query, results); refined != query {
			res.State = StateRefining
			res.Refined = true
			logger.Info("retrying with refined query", zap.String("refined", refined))
			results = w.retriever.Retrieve(ctx, refined, 0)
		}
	}
	res.Sources = results

	// the refined form is a retrieval aid only; the answer is always
	// generated against the user's own words
	res.State = StateGenerating
	res.Answer = w.generator.Generate(ctx, query, results)
	w.memory.Append(query, res.Answer)
	res.State = StateCompleted
	return res
}

// ProcessStream runs the same pipeline but emits the answer as
// fragments. The exchange is recorded once, after the stream drains;
// cancellation stops production without recording a partial answer.
func (w *Workflow) ProcessStream(ctx context.Context, query string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		logger := logutil.GetLogger(ctx)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("streaming query failed", zap.Any("panic", r))
				select {
				case out <- ErrorMessage:
				case <-ctx.Done():
				}
			}
		}()

		intent := ClassifyIntent(query)
		logger.Info("query analyzed", zap.String("intent", string(intent)))

		results := w.retriever.Retrieve(ctx, query, 0)
		if w.retriever.NeedsRefinement(query, results) {
			if refined := w.retriever.Refine(query, results); refined != query {
				results = w.retriever.Retrieve(ctx, refined, 0)
			}
		}

		var full strings.Builder
		for fragment := range w.generator.GenerateStream(ctx, query, results) {
			full.WriteString(fragment)
			select {
			case out <- fragment:
			case <-ctx.Done():
				return
			}
		}
		w.memory.Append(query, full.String())
	}()
	return out
}

// ClassifyIntent buckets a query by marker words.
func ClassifyIntent(query string) Intent {
	for _, raw := range strings.Fields(strings.ToLower(query)) {
		word := strings.Trim(raw, ".,!?;:\"'")
		switch word {
		case "what", "which", "who":
			return IntentFactual
		case "why", "how":
			return IntentExplanatory
		case "summarize", "summary":
			return IntentSummarization
		}
	}
	return IntentGeneral
}
