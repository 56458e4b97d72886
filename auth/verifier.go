package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"

	errs "github.com/cojovi/chat-relay/internal/errors"
)

// Verifier validates bearer tokens presented by the chat platform.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) error
}

// ChatVerifier verifies Google Chat webhook tokens against the
// platform's published JWKS. The remote key set caches fetched keys
// and refetches when a token references an unknown key id, which is
// what keeps verification working across key rotation.
type ChatVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ Verifier = (*ChatVerifier)(nil)

// NewChatVerifier creates a verifier bound to the given JWKS endpoint,
// expected issuer, and expected audience (the GCP project number).
// Signing is restricted to RS256; tokens claiming any other algorithm
// are rejected outright.
func NewChatVerifier(ctx context.Context, jwksURL, issuer, audience string) (*ChatVerifier, error) {
	if jwksURL == "" {
		return nil, fmt.Errorf("[NewChatVerifier] JWKS URL is required")
	}
	if issuer == "" {
		return nil, fmt.Errorf("[NewChatVerifier] issuer is required")
	}
	if audience == "" {
		return nil, fmt.Errorf("[NewChatVerifier] audience is required")
	}

	keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
	verifier := oidc.NewVerifier(issuer, keySet, &oidc.Config{
		ClientID:             audience,
		SupportedSigningAlgs: []string{oidc.RS256},
	})

	return &ChatVerifier{verifier: verifier}, nil
}

// Verify checks signature, audience, issuer, and expiry. Every failure
// collapses to ErrInvalidToken so callers at the HTTP boundary cannot
// leak which check failed; the detail is only logged here.
func (v *ChatVerifier) Verify(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return errs.ErrMissingToken
	}
	if _, err := v.verifier.Verify(ctx, rawToken); err != nil {
		log.Warn().Err(err).Msg("chat token verification failed")
		return errs.ErrInvalidToken
	}
	return nil
}
