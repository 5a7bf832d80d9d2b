package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/docqa/internal/pkg/errors"
)

func TestChunk_WindowOffsets(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("a", 250)
	chunks := c.Chunk(context.Background(), text, "doc-1")

	require.Len(t, chunks, 4)
	wantStarts := []int{0, 80, 160, 240}
	for i, ch := range chunks {
		require.Equal(t, wantStarts[i], ch.Metadata.StartOffset)
		require.Equal(t, ch.Metadata.EndOffset-ch.Metadata.StartOffset, len(ch.Text))
		require.Equal(t, len(ch.Text), ch.Metadata.Length)
		require.Equal(t, i, ch.Index)
	}
	require.Equal(t, 10, chunks[3].Metadata.Length)
}

func TestChunk_ConsecutiveOverlap(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("x", 500)
	chunks := c.Chunk(context.Background(), text, "doc-1")
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.Metadata.EndOffset == len(text) && cur.Metadata.Length < 100 {
			continue // final truncated window
		}
		require.Equal(t, 20, prev.Metadata.EndOffset-cur.Metadata.StartOffset)
	}
}

func TestChunk_MultibyteRuneBoundaries(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)

	text := strings.Repeat("日本語テキスト", 5)
	chunks := c.Chunk(context.Background(), text, "doc-1")
	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		require.True(t, utf8.ValidString(ch.Text))
		require.Equal(t, i*8, ch.Metadata.StartOffset)
		require.Equal(t, ch.Metadata.EndOffset-ch.Metadata.StartOffset, utf8.RuneCountInString(ch.Text))
	}

	// dropping the 2-rune overlap from each later window reassembles the text
	var sb strings.Builder
	for i, ch := range chunks {
		runes := []rune(ch.Text)
		if i > 0 {
			runes = runes[2:]
		}
		sb.WriteString(string(runes))
	}
	require.Equal(t, text, sb.String())
}

func TestChunk_EmptyText(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)
	require.Empty(t, c.Chunk(context.Background(), "", "doc-1"))
}

func TestChunk_WhitespaceWindowSkipped(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)
	text := "abcdefghij          "
	chunks := c.Chunk(context.Background(), text, "doc-1")
	require.Len(t, chunks, 1)
	require.Equal(t, "abcdefghij", chunks[0].Text)
}

func TestNew_OverlapAtLeastSize(t *testing.T) {
	_, err := New(100, 100)
	require.ErrorIs(t, err, appErr.ErrConfig)

	_, err = New(100, 150)
	require.ErrorIs(t, err, appErr.ErrConfig)

	_, err = New(0, 0)
	require.ErrorIs(t, err, appErr.ErrConfig)
}

func TestChunkBySentences(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	text := "First sentence here. Second sentence follows. Third one closes."
	chunks := c.ChunkBySentences(context.Background(), text, "doc-1", 45)

	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		require.NotEmpty(t, strings.TrimSpace(ch.Text))
	}
	// Each flush keeps at least one sentence even when a single sentence
	// exceeds the target size.
	long := "This single sentence is far longer than the tiny target size we hand in."
	chunks = c.ChunkBySentences(context.Background(), long, "doc-2", 10)
	require.Len(t, chunks, 1)
}
