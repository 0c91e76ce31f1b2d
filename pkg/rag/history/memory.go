// Package history holds the conversational memory replayed into prompts.
package history

import (
	"fmt"
	"strings"
	"sync"

	"nexus-rag-be/internal/constant"
)

// Turn is one completed question/answer cycle. Turns are never mutated after
// being appended.
type Turn struct {
	Question string
	Answer   string
}

// ConversationMemory is an ordered, append-only log of turns. It is scoped to
// one pipeline instance, which in this deployment means one server process
// (see DESIGN.md for the session-vs-process decision). There is no eviction
// and no size bound; unbounded growth over a long-lived process is a known
// limitation carried over from the source system.
//
// The mutex exists because the HTTP layer may dispatch concurrent requests;
// the source system shared an unsynchronized structure instead, which was a
// latent race, not a design choice.
type ConversationMemory struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{}
}

// Append records one completed question/answer cycle.
func (m *ConversationMemory) Append(turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
}

// Load renders the full history as text for prompt injection, oldest first.
func (m *ConversationMemory) Load() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	for _, turn := range m.turns {
		sb.WriteString(fmt.Sprintf("%s: %s\n", constant.ConversationRoleHuman, turn.Question))
		sb.WriteString(fmt.Sprintf("%s: %s\n", constant.ConversationRoleAI, turn.Answer))
	}
	return sb.String()
}

// Turns returns a copy of the log in insertion order.
func (m *ConversationMemory) Turns() []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len reports the number of recorded turns.
func (m *ConversationMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}
