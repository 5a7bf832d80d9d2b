package memory

import "sync"

// Entry is one completed exchange.
type Entry struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Conversation is a bounded, append-only exchange log. Appending past
// capacity evicts the oldest entries first; Reset wipes everything. Safe
// for concurrent use.
type Conversation struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

func NewConversation(capacity int) *Conversation {
	if capacity <= 0 {
		capacity = 200
	}
	return &Conversation{capacity: capacity}
}

func (c *Conversation) Append(query, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Query: query, Response: response})
	if overflow := len(c.entries) - c.capacity; overflow > 0 {
		c.entries = c.entries[overflow:]
	}
}

// History returns a copy of the entries, oldest first.
func (c *Conversation) History() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}
