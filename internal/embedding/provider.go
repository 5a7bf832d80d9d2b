package embedding

// Vector is a fixed-dimension, L2-normalized embedding.
type Vector []float32

// Provider maps text to vectors. Implementations must be deterministic for
// a given configuration: the same input always yields the same vector.
// Embedding empty text returns a zero-length sentinel vector; callers skip
// such items instead of failing the surrounding batch.
type Provider interface {
	Embed(text string) Vector
	EmbedBatch(texts []string) []Vector
	Dimension() int
}

// IsEmpty reports the unembeddable-input sentinel.
func IsEmpty(v Vector) bool {
	return len(v) == 0
}
