// Package cache holds the two response tiers that answer a question
// without spending any model quota: a fixed canned-response table for
// trivial inputs, and a bounded memo of previously generated answers
// keyed by normalized question text.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"unicode"
)

// Normalize produces the cache/table key for a question: lowercased,
// punctuation stripped, whitespace trimmed.
func Normalize(question string) string {
	var b strings.Builder
	b.Grow(len(question))
	for _, r := range strings.ToLower(question) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// CannedAnswer looks up the fixed canned-response table. The key must
// already be normalized. Canned answers cost nothing and never carry
// sources.
func CannedAnswer(normalized string) (string, bool) {
	answer, ok := cannedResponses[normalized]
	return answer, ok
}

// cannedResponses answers greetings and a handful of short factual
// definitions without touching the index or the model.
var cannedResponses = map[string]string{
	"hi":         "Hello 👋 How can I help you today?",
	"hello":      "Hi 😊 Ask me anything.",
	"ml":         "Machine Learning is a branch of Artificial Intelligence that enables systems to learn from data.",
	"what is ml": "Machine Learning is a branch of Artificial Intelligence that enables systems to learn from data.",
	"ai":         "Artificial Intelligence is the ability of machines to perform tasks that require human intelligence.",
	"what is ai": "Artificial Intelligence is the ability of machines to perform tasks that require human intelligence.",
}

// Entry is a memoized answer with its ordered source citations.
type Entry struct {
	Answer  string
	Sources []string
}

// clone detaches the entry from caller-visible slices so neither side
// can mutate the other's sources.
func (e Entry) clone() Entry {
	if e.Sources == nil {
		return e
	}
	sources := make([]string, len(e.Sources))
	copy(sources, e.Sources)
	return Entry{Answer: e.Answer, Sources: sources}
}

// ResponseCache memoizes generated answers by normalized question.
// It is safe for concurrent use and bounded: once capacity is reached
// the least recently used entry is evicted.
type ResponseCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type cacheItem struct {
	key   string
	entry Entry
}

// DefaultCapacity bounds the memo when no capacity is configured.
const DefaultCapacity = 256

// NewResponseCache creates a cache holding at most capacity entries.
// Non-positive capacities fall back to DefaultCapacity.
func NewResponseCache(capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResponseCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the memoized entry for the normalized key, if any.
func (c *ResponseCache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheItem).entry.clone(), true
}

// Put stores an entry under the normalized key, evicting the least
// recently used entry when full.
func (c *ResponseCache) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry = entry.clone()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheItem).entry = entry
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheItem).key)
		}
	}

	c.entries[key] = c.order.PushFront(&cacheItem{key: key, entry: entry})
}

// Clear drops every memoized entry. Called whenever the document set
// changes, since any cached answer may cite stale context.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of memoized entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
