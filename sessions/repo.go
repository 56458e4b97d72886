package sessions

// Repo maps a conversation identifier (a chat space, group, or DM
// thread) to the backend session holding its conversational context.
// Implementations must be safe for concurrent use. The interface
// exists so the in-memory store can be swapped for a distributed one
// without touching the relay logic.
type Repo interface {
	// Get returns the backend session for a conversation, if one exists.
	Get(conversationID string) (string, bool)
	// Upsert inserts or overwrites the conversation's session. At most
	// one session is held per conversation.
	Upsert(conversationID, sessionID string) error
	// Delete removes the conversation's session. Deleting an absent
	// conversation is a no-op.
	Delete(conversationID string) error
}
