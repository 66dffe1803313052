package agent

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// CheckpointStore persists conversation history per thread. A missing
// thread reads as empty history, never an error.
type CheckpointStore interface {
	// Get returns the thread's message history, oldest first.
	Get(ctx context.Context, threadID string) ([]llms.MessageContent, error)

	// Put replaces the thread's message history.
	Put(ctx context.Context, threadID string, messages []llms.MessageContent) error
}

// MemorySaver is an in-process CheckpointStore. History lives for the
// lifetime of the process; restarts start every thread fresh.
type MemorySaver struct {
	mu      sync.RWMutex
	threads map[string][]llms.MessageContent
}

// NewMemorySaver creates an empty in-memory checkpoint store.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{threads: make(map[string][]llms.MessageContent)}
}

// Get implements CheckpointStore.
func (m *MemorySaver) Get(ctx context.Context, threadID string) ([]llms.MessageContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.threads[threadID]
	// Copy so callers can append without aliasing stored state.
	out := make([]llms.MessageContent, len(stored))
	copy(out, stored)
	return out, nil
}

// Put implements CheckpointStore.
func (m *MemorySaver) Put(ctx context.Context, threadID string, messages []llms.MessageContent) error {
	stored := make([]llms.MessageContent, len(messages))
	copy(stored, messages)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads[threadID] = stored
	return nil
}

// Len returns the number of messages stored for a thread.
func (m *MemorySaver) Len(threadID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.threads[threadID])
}

var _ CheckpointStore = (*MemorySaver)(nil)
