package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// unauthorizedBody is the only detail the boundary reveals about an
// auth failure, whatever the underlying cause.
const unauthorizedBody = `{"error": "Unauthorized"}`

// RequireChatAuth is middleware that validates the Bearer token the
// chat platform attaches to every webhook delivery. Requests without a
// well-formed Authorization header are rejected before any
// verification is attempted.
func (s *Server) RequireChatAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				log.Warn().Str("request_id", RequestID(r.Context())).Msg("webhook request without bearer token")
				writeUnauthorized(w)
				return
			}

			if err := s.verifier.Verify(r.Context(), token); err != nil {
				log.Warn().Err(err).Str("request_id", RequestID(r.Context())).Msg("webhook request failed verification")
				writeUnauthorized(w)
				return
			}

			next(w, r)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Any other header shape reports no token.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
