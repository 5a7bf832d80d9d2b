package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// WithLRUCache fronts a Provider with an expiring LRU keyed by content
// hash. Useful when the underlying provider is replaced by a remote model;
// for the hash provider it only saves the PRNG work.
func WithLRUCache(next Provider, size int, ttl time.Duration) Provider {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &cachedProvider{
		next:  next,
		cache: expirable.NewLRU[string, Vector](size, nil, ttl),
	}
}

type cachedProvider struct {
	next  Provider
	cache *expirable.LRU[string, Vector]
}

func (c *cachedProvider) Embed(text string) Vector {
	key := cacheKey(text)
	if cached, ok := c.cache.Get(key); ok {
		return cloneVector(cached)
	}
	vec := c.next.Embed(text)
	if !IsEmpty(vec) {
		c.cache.Add(key, cloneVector(vec))
	}
	return vec
}

func (c *cachedProvider) EmbedBatch(texts []string) []Vector {
	vectors := make([]Vector, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, c.Embed(text))
	}
	return vectors
}

func (c *cachedProvider) Dimension() int {
	return c.next.Dimension()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cloneVector(v Vector) Vector {
	if len(v) == 0 {
		return nil
	}
	clone := make(Vector, len(v))
	copy(clone, v)
	return clone
}
