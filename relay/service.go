package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cojovi/chat-relay/sessions"
)

// Reply is the webhook response body: {"text": "..."} or, when there is
// nothing to say, {}.
type Reply struct {
	Text string `json:"text,omitempty"`
}

// User-facing degraded replies. The chat platform expects a well-formed
// 200 response even when the backend fails, so these replace errors at
// this boundary.
const (
	sessionFailedReply = "Sorry, I couldn't start a session with the AI."
	unavailableReply   = "⚠️ Error: The AI service is unavailable at the moment."

	defaultDisplayName = "there"
	greetingFormat     = "Hello %s, I'm your OpenWebUI bot! Ask me anything."
)

// BackendClient is the slice of the AI backend the router needs.
type BackendClient interface {
	NewSession(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, sessionID, text string) (string, error)
}

// Service routes parsed webhook events: greetings on join, session
// cleanup on leave, and session-aware message forwarding. The session
// repo is its only shared state; mutation happens here and nowhere
// else.
type Service struct {
	backend  BackendClient
	sessions sessions.Repo

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-conversation, serialises first contact
}

// NewService creates an event router over the given backend and
// session repository.
func NewService(backend BackendClient, repo sessions.Repo) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("[relay NewService] backend client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("[relay NewService] session repo is required")
	}
	return &Service{
		backend:  backend,
		sessions: repo,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// HandleEvent dispatches an inbound event to its flow. It never returns
// an error: every failure degrades to a user-facing reply so one bad
// event cannot fault the process or leak past the webhook boundary.
func (s *Service) HandleEvent(ctx context.Context, ev Event) Reply {
	switch ev.Kind {
	case KindJoined:
		name := ev.UserDisplayName
		if name == "" {
			name = defaultDisplayName
		}
		return Reply{Text: fmt.Sprintf(greetingFormat, name)}

	case KindLeft:
		if ev.ConversationID == "" {
			return Reply{}
		}
		if err := s.sessions.Delete(ev.ConversationID); err != nil {
			log.Error().Err(err).Str("conversation", ev.ConversationID).Msg("failed to delete session record")
		}
		return Reply{}

	case KindMessage:
		return s.handleMessage(ctx, ev)

	default:
		return Reply{}
	}
}

func (s *Service) handleMessage(ctx context.Context, ev Event) Reply {
	if ev.Text == "" || ev.ConversationID == "" {
		return Reply{}
	}

	sessionID, err := s.ensureSession(ctx, ev.ConversationID)
	if err != nil {
		log.Error().Err(err).Str("conversation", ev.ConversationID).Msg("failed to start backend session")
		return Reply{Text: sessionFailedReply}
	}

	replyText, err := s.backend.SendMessage(ctx, sessionID, ev.Text)
	if err != nil {
		// Only the message failed; the session record stays so the next
		// message reuses it.
		log.Error().Err(err).Str("conversation", ev.ConversationID).Str("session", sessionID).Msg("failed to forward message")
		return Reply{Text: unavailableReply}
	}
	return Reply{Text: replyText}
}

// ensureSession returns the conversation's backend session, creating
// and recording one on first contact. The per-conversation lock makes
// check-create-store atomic: two concurrent first messages yield one
// backend session, with the loser reusing the winner's. On creation
// failure nothing is stored, so a later message retries creation.
func (s *Service) ensureSession(ctx context.Context, conversationID string) (string, error) {
	lock := s.conversationLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	if sessionID, ok := s.sessions.Get(conversationID); ok {
		return sessionID, nil
	}

	sessionID, err := s.backend.NewSession(ctx)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Upsert(conversationID, sessionID); err != nil {
		return "", err
	}

	log.Info().Str("conversation", conversationID).Str("session", sessionID).Msg("started backend session for conversation")
	return sessionID, nil
}

func (s *Service) conversationLock(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conversationID] = lock
	}
	return lock
}
