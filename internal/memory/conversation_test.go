package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConversationAppendAndHistory(t *testing.T) {
	c := NewConversation(10)
	c.Append("q1", "a1")
	c.Append("q2", "a2")
	require.Equal(t, 2, c.Len())

	hist := c.History()
	require.Len(t, hist, 2)
	require.Equal(t, "q1", hist[0].Query)
	require.Equal(t, "a2", hist[1].Response)
}

func TestConversationEviction(t *testing.T) {
	const capacity = 20
	c := NewConversation(capacity)
	for i := 0; i < capacity+5; i++ {
		c.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	require.Equal(t, capacity, c.Len())

	hist := c.History()
	// oldest 5 evicted, newest retained in order
	require.Equal(t, "q5", hist[0].Query)
	require.Equal(t, fmt.Sprintf("q%d", capacity+4), hist[len(hist)-1].Query)
}

func TestConversationReset(t *testing.T) {
	c := NewConversation(5)
	c.Append("q", "a")
	c.Reset()
	require.Equal(t, 0, c.Len())
	require.Empty(t, c.History())
}

func TestConversationHistoryIsCopy(t *testing.T) {
	c := NewConversation(5)
	c.Append("q", "a")
	hist := c.History()
	hist[0].Response = "mutated"
	require.Equal(t, "a", c.History()[0].Response)
}

func TestConversationDefaultCapacity(t *testing.T) {
	c := NewConversation(0)
	for i := 0; i < 250; i++ {
		c.Append("q", "a")
	}
	require.Equal(t, 200, c.Len())
}
