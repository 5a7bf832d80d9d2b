package model

// SearchResult is a single ranked hit from a vector store. Score is cosine
// similarity; result sets are sorted by Score descending with ties kept in
// insertion order.
type SearchResult struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ResultText pulls the chunk text a store kept in result metadata.
func ResultText(r SearchResult) string {
	if r.Metadata == nil {
		return ""
	}
	text, _ := r.Metadata["text"].(string)
	return text
}
