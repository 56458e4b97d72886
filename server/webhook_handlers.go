package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cojovi/chat-relay/relay"
)

// maxEventBodySize bounds how much of a webhook delivery is read.
const maxEventBodySize = 1 << 20

// WebhookHandler receives chat platform events. Auth has already
// happened in RequireChatAuth; from here every outcome is a 200 with a
// JSON body, because the platform treats anything else as a delivery
// failure and retries.
func (s *Server) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBodySize))
		if err != nil {
			log.Warn().Err(err).Str("request_id", RequestID(r.Context())).Msg("failed to read webhook body")
			writeReply(w, relay.Reply{})
			return
		}

		event := relay.ParseEvent(body)
		log.Info().
			Str("request_id", RequestID(r.Context())).
			Str("kind", string(event.Kind)).
			Str("conversation", event.ConversationID).
			Msg("received chat event")

		reply := s.relay.HandleEvent(r.Context(), event)
		writeReply(w, reply)
	}
}

func writeReply(w http.ResponseWriter, reply relay.Reply) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		log.Error().Err(err).Msg("failed to encode webhook reply")
	}
}
