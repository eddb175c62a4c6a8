// Package memory keeps the conversational history for the general-chat
// path: an ordered log of (question, answer) turns, renderable as a
// transcript for prompt building.
package memory

import (
	"fmt"
	"strings"
	"sync"
)

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string
	Answer   string
}

// ConversationMemory is an ordered, append-only log of turns, bounded
// to a maximum turn count so a long-lived process cannot grow its
// transcript without limit. It is safe for concurrent use.
type ConversationMemory struct {
	mu       sync.RWMutex
	turns    []Turn
	maxTurns int
}

// DefaultMaxTurns bounds the transcript when no limit is configured.
const DefaultMaxTurns = 50

// New creates a ConversationMemory holding at most maxTurns turns.
// Non-positive values fall back to DefaultMaxTurns.
func New(maxTurns int) *ConversationMemory {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &ConversationMemory{maxTurns: maxTurns}
}

// Append records a completed turn, dropping the oldest turn once the
// limit is reached.
func (m *ConversationMemory) Append(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, Turn{Question: question, Answer: answer})
	if len(m.turns) > m.maxTurns {
		m.turns = m.turns[len(m.turns)-m.maxTurns:]
	}
}

// Turns returns a copy of the recorded turns in order of occurrence.
func (m *ConversationMemory) Turns() []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := make([]Turn, len(m.turns))
	copy(turns, m.turns)
	return turns
}

// Len returns the number of recorded turns.
func (m *ConversationMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}

// Transcript renders the history as alternating Student/Bot lines for
// inclusion in prompts. An empty history renders as an empty string.
func (m *ConversationMemory) Transcript() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	for _, turn := range m.turns {
		fmt.Fprintf(&b, "Student: %s\nBot: %s\n", turn.Question, turn.Answer)
	}
	return b.String()
}
