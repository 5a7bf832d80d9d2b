package chunker

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/model"
	appErr "github.com/xxxsen/docqa/internal/pkg/errors"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// Chunker splits document text into overlapping windows sized for
// independent embedding.
type Chunker struct {
	size    int
	overlap int
}

// New validates the window geometry up front. An overlap at or above the
// window size would make the step non-positive and the scan would never
// advance, so that is rejected here instead of looping at chunk time.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", appErr.ErrConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", appErr.ErrConfig, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk emits windows starting at offsets 0, step, 2*step... where
// step = size - overlap, each clamped to the text length. Sizes and
// offsets count code points, never bytes, so a window boundary cannot
// split a multibyte rune. Windows whose trimmed text is empty are
// skipped. Empty input yields no chunks and no error.
func (c *Chunker) Chunk(ctx context.Context, text string, sourceID string) []model.Chunk {
	if len(text) == 0 {
		logutil.GetLogger(ctx).Debug("empty text, nothing to chunk", zap.String("source_id", sourceID))
		return nil
	}
	runes := []rune(text)
	step := c.size - c.overlap
	var chunks []model.Chunk
	index := 0
	for offset := 0; offset < len(runes); offset += step {
		end := offset + c.size
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[offset:end])
		if strings.TrimSpace(window) == "" {
			continue
		}
		chunks = append(chunks, model.Chunk{
			Text:     window,
			Index:    index,
			SourceID: sourceID,
			Metadata: model.ChunkMetadata{
				StartOffset: offset,
				EndOffset:   end,
				Length:      end - offset,
			},
		})
		index++
	}
	logutil.GetLogger(ctx).Info("chunked document",
		zap.String("source_id", sourceID),
		zap.Int("text_len", len(runes)),
		zap.Int("chunks", len(chunks)),
	)
	return chunks
}

// ChunkBySentences accumulates whole sentences into a buffer and flushes a
// chunk whenever appending the next sentence would push the buffer past
// targetSize. Every emitted chunk holds at least one sentence, so a single
// oversized sentence still becomes a chunk instead of being dropped.
func (c *Chunker) ChunkBySentences(ctx context.Context, text string, sourceID string, targetSize int) []model.Chunk {
	if targetSize <= 0 {
		targetSize = c.size
	}
	sentences := sentencePattern.FindAllString(text, -1)
	var chunks []model.Chunk
	var current string
	index := 0
	offset := 0
	flush := func() {
		if current == "" {
			return
		}
		length := utf8.RuneCountInString(current)
		chunks = append(chunks, model.Chunk{
			Text:     current,
			Index:    index,
			SourceID: sourceID,
			Metadata: model.ChunkMetadata{
				StartOffset: offset,
				EndOffset:   offset + length,
				Length:      length,
			},
		})
		offset += length
		index++
		current = ""
	}
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}
		if utf8.RuneCountInString(candidate) > targetSize && current != "" {
			flush()
			current = sentence
			continue
		}
		current = candidate
	}
	flush()
	logutil.GetLogger(ctx).Info("chunked document by sentences",
		zap.String("source_id", sourceID),
		zap.Int("chunks", len(chunks)),
	)
	return chunks
}
