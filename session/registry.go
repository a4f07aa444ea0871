// Package session tracks the process-wide mapping from conversation
// identifiers to the opaque thread handles issued by the agent service.
// Entries are created lazily on first message and live for the process
// lifetime; there is deliberately no eviction.
package session

import (
	"context"
	"sync"

	"github.com/voyago/voyago/assistant"
	"github.com/voyago/voyago/logging"
)

// Registry is a concurrency-safe conversation→thread map. Concurrent first
// messages for the same conversation are serialized under the write lock, so
// exactly one thread is created per conversation.
type Registry struct {
	mu      sync.RWMutex
	threads map[string]string
	service assistant.Service
	log     logging.Logger
}

// NewRegistry constructs an empty registry backed by the given agent service.
func NewRegistry(service assistant.Service, log logging.Logger) *Registry {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	return &Registry{
		threads: make(map[string]string),
		service: service,
		log:     log,
	}
}

// GetOrCreateThread returns the thread handle for a conversation, creating a
// new thread on the service when none is stored. A stored handle that no
// longer validates against the service is treated as not-found and replaced.
func (r *Registry) GetOrCreateThread(ctx context.Context, conversationID string) (string, error) {
	r.mu.RLock()
	threadID, ok := r.threads[conversationID]
	r.mu.RUnlock()

	if ok && r.service.ThreadExists(ctx, threadID) {
		return threadID, nil
	}
	if ok {
		r.log.Warn("stored thread no longer valid, creating a new one",
			"conversation_id", conversationID, "thread_id", threadID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the thread while we were upgrading
	// to the write lock.
	if current, ok := r.threads[conversationID]; ok && current != threadID {
		return current, nil
	}

	created, err := r.service.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	r.threads[conversationID] = created

	r.log.Info("created conversation thread", "conversation_id", conversationID, "thread_id", created)

	return created, nil
}

// Len returns the number of tracked conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.threads)
}
