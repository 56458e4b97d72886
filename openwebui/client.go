package openwebui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	errs "github.com/cojovi/chat-relay/internal/errors"
)

const defaultTimeout = 15 * time.Second

// chatPayload is the message body OpenWebUI expects inside the "chat"
// wrapper. An empty payload ({"chat":{}}) starts a new session.
type chatPayload struct {
	Content string `json:"content,omitempty"`
	Role    string `json:"role,omitempty"`
}

type chatRequest struct {
	Chat chatPayload `json:"chat"`
}

// sessionEnvelope covers both field names OpenWebUI has used for the
// session identifier across versions.
type sessionEnvelope struct {
	ID     string `json:"id"`
	ChatID string `json:"chat_id"`
}

// Client is a focused OpenWebUI client covering session creation and
// message forwarding. The API's response shapes are not strictly
// contracted, so replies are probed by ordered extractors (reply.go).
// Configuration is read-only after New; the client is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The replacement
// must inject the backend credential itself.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each backend request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a Client for the OpenWebUI API at baseURL. The API key is
// injected as a bearer credential on every request via a static oauth2
// token source.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("[openwebui New] base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("[openwebui New] API key is required")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(context.Background(), tokenSource)
	httpClient.Timeout = defaultTimeout

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewSession starts a new conversation context and returns its session
// identifier, checking both known field-name variants. A response with
// neither field fails with ErrMalformedResponse, surfaced the same way
// as a network failure.
func (c *Client) NewSession(ctx context.Context) (string, error) {
	raw, err := c.postJSON(ctx, c.baseURL+"/chats/new", chatRequest{})
	if err != nil {
		return "", err
	}

	var env sessionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: decode session response: %v", errs.ErrMalformedResponse, err)
	}
	sessionID := env.ID
	if sessionID == "" {
		sessionID = env.ChatID
	}
	if sessionID == "" {
		return "", fmt.Errorf("%w: no session id in response", errs.ErrMalformedResponse)
	}

	log.Info().Str("session", sessionID).Msg("created backend chat session")
	return sessionID, nil
}

// SendMessage posts the user's message to an existing session and
// returns the assistant's reply text. A reply with no extractable
// content degrades to NoResponseReply rather than failing.
func (c *Client) SendMessage(ctx context.Context, sessionID, text string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("[openwebui SendMessage] session id is required")
	}

	raw, err := c.postJSON(ctx, c.baseURL+"/chats/"+sessionID, chatRequest{
		Chat: chatPayload{Content: text, Role: "user"},
	})
	if err != nil {
		return "", err
	}
	return ExtractReply(raw), nil
}

// postJSON issues a bounded POST and returns the response body. Network
// errors, timeouts, and non-2xx statuses all collapse to
// ErrBackendUnavailable; callers produce a degraded user-facing reply
// instead of propagating.
func (c *Client) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("[openwebui] marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("[openwebui] create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("openwebui request failed")
		return nil, fmt.Errorf("%w: %v", errs.ErrBackendUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		log.Error().Int("status", res.StatusCode).Str("url", url).Str("body", string(buf)).Msg("openwebui returned non-2xx status")
		return nil, fmt.Errorf("%w: unexpected status %d", errs.ErrBackendUnavailable, res.StatusCode)
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errs.ErrBackendUnavailable, err)
	}
	return buf, nil
}
