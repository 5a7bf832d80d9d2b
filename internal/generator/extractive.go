package generator

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xxxsen/docqa/internal/model"
)

const (
	extractiveMaxLines  = 5
	extractivePrefixCap = 1200
	manifestSampleSize  = 5
)

var manifestLinePattern = regexp.MustCompile(`^[A-Za-z0-9][\w.\-]*\s*(===|==|>=|<=|~=|!=|>|<|=)\s*\S+$`)

// ExtractiveStrategy answers without any model. Summarization queries over
// manifest-shaped context get a templated summary; everything else gets
// the highest-scoring lines by query-term hits, or a truncated prefix of
// the context as a last resort.
type ExtractiveStrategy struct{}

func NewExtractiveStrategy() *ExtractiveStrategy {
	return &ExtractiveStrategy{}
}

func (s *ExtractiveStrategy) Name() string {
	return "extractive"
}

func (s *ExtractiveStrategy) Generate(ctx context.Context, query string, results []model.SearchResult) (string, error) {
	combined := BuildContext(results, false)
	if strings.TrimSpace(combined) == "" {
		return "", fmt.Errorf("no retrieved text to extract from")
	}
	if isSummarizationQuery(query) {
		if summary, ok := summarizeManifest(combined); ok {
			return summary, nil
		}
	}
	if answer := extractKeywordLines(query, combined); answer != "" {
		return answer, nil
	}
	if len(combined) > extractivePrefixCap {
		combined = combined[:extractivePrefixCap]
	}
	return combined, nil
}

func isSummarizationQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "summar")
}

// summarizeManifest recognizes dependency-manifest shaped text: lines of
// name<operator>version with comment-delimited section headers.
func summarizeManifest(text string) (string, bool) {
	var (
		entries  []string
		sections []string
		seen     = map[string]bool{}
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			label := strings.TrimSpace(strings.TrimLeft(line, "# "))
			if label != "" {
				sections = append(sections, label)
			}
			continue
		}
		if manifestLinePattern.MatchString(line) {
			name := line
			if idx := strings.IndexAny(line, "=<>~!"); idx > 0 {
				name = strings.TrimSpace(line[:idx])
			}
			if !seen[name] {
				seen[name] = true
				entries = append(entries, name)
			}
		}
	}
	if len(entries) < 3 {
		return "", false
	}
	sample := entries
	if len(sample) > manifestSampleSize {
		sample = sample[:manifestSampleSize]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "The document lists %d distinct entries", len(entries))
	if len(sections) > 0 {
		fmt.Fprintf(&sb, " across %d sections (%s)", len(sections), strings.Join(sections, ", "))
	}
	fmt.Fprintf(&sb, ". Examples: %s.", strings.Join(sample, ", "))
	return sb.String(), true
}

// extractKeywordLines scores each context line by the number of query
// terms (length > 3) it contains and returns the top lines in score order,
// original line order breaking ties. Empty when no term hits anything.
func extractKeywordLines(query, text string) string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?:;\"'")
		if len(word) > 3 {
			terms = append(terms, word)
		}
	}
	if len(terms) == 0 {
		return ""
	}
	type scoredLine struct {
		line  string
		score int
		pos   int
	}
	var matches []scoredLine
	for pos, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scoredLine{line: trimmed, score: score, pos: pos})
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > extractiveMaxLines {
		matches = matches[:extractiveMaxLines]
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, m.line)
	}
	return strings.Join(lines, "\n")
}
