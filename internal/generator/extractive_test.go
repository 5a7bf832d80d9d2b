package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractive_ManifestSummary(t *testing.T) {
	manifest := `# Web framework
fastapi==0.104.1
uvicorn>=0.24.0

# Storage
boto3==1.28.85
redis~=5.0.1`

	s := NewExtractiveStrategy()
	answer, err := s.Generate(context.Background(), "summarize the requirements file", contextResults(manifest))

	require.NoError(t, err)
	require.Contains(t, answer, "4 distinct entries")
	require.Contains(t, answer, "Web framework")
	require.Contains(t, answer, "Storage")
	require.Contains(t, answer, "fastapi")
}

func TestExtractive_KeywordLines(t *testing.T) {
	text := `The quick brown fox jumps over the lazy dog.
Reactor output is measured in gigawatts during peak load.
Nothing interesting on this line.
The reactor shuts down automatically when output spikes.`

	s := NewExtractiveStrategy()
	answer, err := s.Generate(context.Background(), "how does the reactor output behave", contextResults(text))

	require.NoError(t, err)
	require.Contains(t, answer, "Reactor output is measured")
	require.Contains(t, answer, "reactor shuts down")
	require.NotContains(t, answer, "quick brown fox")
}

func TestExtractive_PrefixFallback(t *testing.T) {
	long := strings.Repeat("filler content without matches ", 100)

	s := NewExtractiveStrategy()
	answer, err := s.Generate(context.Background(), "xyzzy quux", contextResults(long))

	require.NoError(t, err)
	require.NotEmpty(t, answer)
	require.LessOrEqual(t, len(answer), extractivePrefixCap)
}

func TestExtractive_NoContextFails(t *testing.T) {
	s := NewExtractiveStrategy()
	_, err := s.Generate(context.Background(), "anything", nil)
	require.Error(t, err)
}

func TestExtractive_ShortQueryTermsIgnored(t *testing.T) {
	text := "alpha line one\nbeta line two"
	s := NewExtractiveStrategy()
	// all query terms are <= 3 chars, so keyword scoring finds nothing and
	// the prefix fallback returns the combined text
	answer, err := s.Generate(context.Background(), "a of to", contextResults(text))
	require.NoError(t, err)
	require.Equal(t, text, answer)
}
