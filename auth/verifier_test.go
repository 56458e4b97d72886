package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cojovi/chat-relay/auth"
	errs "github.com/cojovi/chat-relay/internal/errors"
)

const (
	testIssuer   = "chat@system.gserviceaccount.com"
	testAudience = "123456789012"
)

// jwksServer serves a mutable key set so tests can simulate key
// rotation by swapping the published keys mid-test.
type jwksServer struct {
	*httptest.Server

	mu   sync.Mutex
	keys []jwksKey
}

type jwksKey struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()

	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": s.keys})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) publish(kid string, key *rsa.PrivateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pub := key.Public().(*rsa.PublicKey)
	s.keys = append(s.keys, jwksKey{
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	})
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

type tokenClaims struct {
	issuer   string
	audience string
	expires  time.Time
}

func defaultClaims() tokenClaims {
	return tokenClaims{
		issuer:   testIssuer,
		audience: testAudience,
		expires:  time.Now().Add(time.Hour),
	}
}

func mintToken(t *testing.T, key *rsa.PrivateKey, kid string, claims tokenClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": claims.issuer,
		"aud": claims.audience,
		"iat": time.Now().Add(-time.Minute).Unix(),
		"exp": claims.expires.Unix(),
	})
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newVerifier(t *testing.T, jwks *jwksServer) *auth.ChatVerifier {
	t.Helper()
	v, err := auth.NewChatVerifier(context.Background(), jwks.URL, testIssuer, testAudience)
	require.NoError(t, err)
	return v
}

func TestVerifyValidToken(t *testing.T) {
	jwks := newJWKSServer(t)
	key := newRSAKey(t)
	jwks.publish("key-1", key)

	v := newVerifier(t, jwks)
	err := v.Verify(context.Background(), mintToken(t, key, "key-1", defaultClaims()))
	require.NoError(t, err)
}

func TestVerifyRejectsAlteredClaims(t *testing.T) {
	jwks := newJWKSServer(t)
	key := newRSAKey(t)
	jwks.publish("key-1", key)
	v := newVerifier(t, jwks)

	wrongAudience := defaultClaims()
	wrongAudience.audience = "999999999999"

	wrongIssuer := defaultClaims()
	wrongIssuer.issuer = "someone-else@system.gserviceaccount.com"

	expired := defaultClaims()
	expired.expires = time.Now().Add(-time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong audience", mintToken(t, key, "key-1", wrongAudience)},
		{"wrong issuer", mintToken(t, key, "key-1", wrongIssuer)},
		{"expired", mintToken(t, key, "key-1", expired)},
		{"garbage", "not-a-token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Verify(context.Background(), tc.token)
			require.ErrorIs(t, err, errs.ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	jwks := newJWKSServer(t)
	key := newRSAKey(t)
	jwks.publish("key-1", key)
	v := newVerifier(t, jwks)

	token := mintToken(t, key, "key-1", defaultClaims())
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	err := v.Verify(context.Background(), tampered)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	jwks := newJWKSServer(t)
	published := newRSAKey(t)
	jwks.publish("key-1", published)
	v := newVerifier(t, jwks)

	// Signed with a key the platform never published, claiming the
	// published key's id.
	impostor := newRSAKey(t)
	err := v.Verify(context.Background(), mintToken(t, impostor, "key-1", defaultClaims()))
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerifyRejectsSymmetricAlgorithm(t *testing.T) {
	jwks := newJWKSServer(t)
	key := newRSAKey(t)
	jwks.publish("key-1", key)
	v := newVerifier(t, jwks)

	// Algorithm-confusion attempt: an HS256 token must never pass, no
	// matter what it is signed with.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "key-1"
	signed, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	err = v.Verify(context.Background(), signed)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerifyRefetchesOnRotatedKey(t *testing.T) {
	jwks := newJWKSServer(t)
	oldKey := newRSAKey(t)
	jwks.publish("key-1", oldKey)
	v := newVerifier(t, jwks)

	// Prime the verifier's key cache with the old key.
	require.NoError(t, v.Verify(context.Background(), mintToken(t, oldKey, "key-1", defaultClaims())))

	// Rotate: publish a new key and sign with it. The unknown kid must
	// trigger a refetch rather than a rejection.
	newKey := newRSAKey(t)
	jwks.publish("key-2", newKey)

	err := v.Verify(context.Background(), mintToken(t, newKey, "key-2", defaultClaims()))
	require.NoError(t, err)
}

func TestVerifyMissingToken(t *testing.T) {
	jwks := newJWKSServer(t)
	v := newVerifier(t, jwks)

	err := v.Verify(context.Background(), "")
	require.ErrorIs(t, err, errs.ErrMissingToken)
}

func TestNewChatVerifierValidatesArguments(t *testing.T) {
	ctx := context.Background()

	_, err := auth.NewChatVerifier(ctx, "", testIssuer, testAudience)
	require.Error(t, err)

	_, err = auth.NewChatVerifier(ctx, "https://example.com/jwks", "", testAudience)
	require.Error(t, err)

	_, err = auth.NewChatVerifier(ctx, "https://example.com/jwks", testIssuer, "")
	require.Error(t, err)
}
