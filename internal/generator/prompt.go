package generator

import (
	"fmt"
	"strings"

	"github.com/xxxsen/docqa/internal/model"
)

// BuildContext concatenates retrieved chunk texts, each prefixed with its
// source identifier when citations are enabled.
func BuildContext(results []model.SearchResult, citations bool) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		text := model.ResultText(result)
		if text == "" {
			continue
		}
		if citations {
			parts = append(parts, fmt.Sprintf("[Source: %s]\n%s", resultSource(result), text))
		} else {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func resultSource(result model.SearchResult) string {
	for _, key := range []string{"filename", "source_id"} {
		if result.Metadata == nil {
			break
		}
		if s, ok := result.Metadata[key].(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}

// BuildPrompt produces the grounded prompt: the model may only use the
// provided excerpts and must say so when the answer is not in them.
func BuildPrompt(query, context string, citations bool) string {
	if citations {
		return fmt.Sprintf(`Based on the following document excerpts, answer the user's question.
If the answer cannot be found in the documents, say so explicitly.
Include references to the source documents when citing information.

Document Context:
%s

User Question: %s

Please provide a clear, concise answer with citations where applicable.`, context, query)
	}
	return fmt.Sprintf(`Based on the following information, answer the user's question:

%s

User Question: %s

Please provide a clear, concise answer.`, context, query)
}
