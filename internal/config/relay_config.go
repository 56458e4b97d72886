package config

import "time"

type RelayConfig interface {
	GetBackendTimeout() time.Duration
	GetJWKSURL() string
	GetChatIssuer() string
}

type Relay struct{}

var _ RelayConfig = Relay{}

// GetBackendTimeout bounds each OpenWebUI request.
func (Relay) GetBackendTimeout() time.Duration {
	return 15 * time.Second
}

// GetJWKSURL returns the endpoint where Google Chat publishes the
// public keys used to sign webhook bearer tokens.
func (Relay) GetJWKSURL() string {
	return "https://www.googleapis.com/service_accounts/v1/jwk/chat@system.gserviceaccount.com"
}

// GetChatIssuer returns the fixed service identity Google Chat uses as
// the token issuer.
func (Relay) GetChatIssuer() string {
	return "chat@system.gserviceaccount.com"
}
