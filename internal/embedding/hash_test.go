package embedding

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/docqa/internal/pkg/errors"
)

func TestHashProvider_Deterministic(t *testing.T) {
	p, err := NewHashProvider(64)
	require.NoError(t, err)

	a := p.Embed("hello world")
	b := p.Embed("hello world")
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestHashProvider_DistinctInputsDiverge(t *testing.T) {
	p, err := NewHashProvider(32)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		vec := p.Embed(fmt.Sprintf("input-%d", i))
		key := fmt.Sprintf("%v", vec)
		require.False(t, seen[key], "collision at input-%d", i)
		seen[key] = true
	}
}

func TestHashProvider_UnitNorm(t *testing.T) {
	p, err := NewHashProvider(256)
	require.NoError(t, err)

	vec := p.Embed("some text to embed")
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-3)
}

func TestHashProvider_EmptyTextSentinel(t *testing.T) {
	p, err := NewHashProvider(16)
	require.NoError(t, err)

	require.True(t, IsEmpty(p.Embed("")))

	batch := p.EmbedBatch([]string{"a", "", "b"})
	require.Len(t, batch, 3)
	require.False(t, IsEmpty(batch[0]))
	require.True(t, IsEmpty(batch[1]))
	require.False(t, IsEmpty(batch[2]))
}

func TestHashProvider_InvalidDimension(t *testing.T) {
	_, err := NewHashProvider(0)
	require.ErrorIs(t, err, appErr.ErrConfig)
}

func TestWithLRUCache_PreservesValues(t *testing.T) {
	p, err := NewHashProvider(16)
	require.NoError(t, err)

	cached := WithLRUCache(p, 10, time.Minute)
	direct := p.Embed("cache me")
	require.Equal(t, direct, cached.Embed("cache me"))
	// second call is served from cache and must be identical
	require.Equal(t, direct, cached.Embed("cache me"))
	require.Equal(t, p.Dimension(), cached.Dimension())
}
