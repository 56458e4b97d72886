package sessions

import (
	"fmt"
	"sync"
)

// InMemoryRepo is an in-memory implementation of Repo. Session
// continuity is process-lifetime only: a restart loses every mapping,
// which is an accepted tradeoff rather than a bug.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]string // conversationID -> backend session ID
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]string),
	}
}

// Get returns the backend session for a conversation, if one exists
func (r *InMemoryRepo) Get(conversationID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, ok := r.sessions[conversationID]
	return sessionID, ok
}

// Upsert inserts or overwrites the conversation's session
func (r *InMemoryRepo) Upsert(conversationID, sessionID string) error {
	if conversationID == "" {
		return fmt.Errorf("conversationID is required")
	}
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[conversationID] = sessionID
	return nil
}

// Delete removes the conversation's session
func (r *InMemoryRepo) Delete(conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("conversationID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, conversationID)
	return nil
}
