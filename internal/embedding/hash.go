package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	appErr "github.com/xxxsen/docqa/internal/pkg/errors"
)

// HashProvider derives vectors from a cryptographic hash of the input: the
// first hash bytes seed a deterministic PRNG that draws Dimension()
// normal-distributed floats, which are then L2-normalized.
//
// This is a capability placeholder, not a trained model: identical texts map
// to identical vectors and distinct texts diverge with overwhelming
// probability, but nothing about semantic similarity is promised. Callers
// that need real semantic retrieval substitute another Provider behind the
// same interface.
type HashProvider struct {
	dimension int
}

func NewHashProvider(dimension int) (*HashProvider, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d", appErr.ErrConfig, dimension)
	}
	return &HashProvider{dimension: dimension}, nil
}

func (p *HashProvider) Dimension() int {
	return p.dimension
}

func (p *HashProvider) Embed(text string) Vector {
	if len(text) == 0 {
		return nil
	}
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint32(sum[:4]) % (1 << 31))
	rng := rand.New(rand.NewSource(seed))

	vec := make(Vector, p.dimension)
	var norm float64
	for i := range vec {
		value := float32(rng.NormFloat64())
		vec[i] = value
		norm += float64(value) * float64(value)
	}
	norm = math.Sqrt(norm) + 1e-8
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func (p *HashProvider) EmbedBatch(texts []string) []Vector {
	vectors := make([]Vector, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, p.Embed(text))
	}
	return vectors
}
