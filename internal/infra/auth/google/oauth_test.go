package google

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"flightdeck/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *OAuthService {
	t.Helper()

	cfg := &config.Config{
		GoogleOAuth: &config.GoogleOAuthConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "https://flightdeck.test/auth/google/callback",
		},
	}

	svc := NewOAuthService(cfg)
	require.NotNil(t, svc)

	return svc.(*OAuthService)
}

func TestNewOAuthService_NilWithoutConfig(t *testing.T) {
	assert.Nil(t, NewOAuthService(&config.Config{}))
}

func TestBuildAuthorizationURL_CarriesClientAndState(t *testing.T) {
	svc := newTestService(t)

	authURL := svc.BuildAuthorizationURL()
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "https://flightdeck.test/auth/google/callback", query.Get("redirect_uri"))

	state := query.Get("state")
	require.NotEmpty(t, state)
	assert.True(t, svc.ValidateState(state))
}

func TestValidateState_SingleUse(t *testing.T) {
	svc := newTestService(t)

	parsed, err := url.Parse(svc.BuildAuthorizationURL())
	require.NoError(t, err)
	state := parsed.Query().Get("state")

	assert.True(t, svc.ValidateState(state))
	assert.False(t, svc.ValidateState(state), "state must be consumed on first use")
}

func TestValidateState_RejectsUnknown(t *testing.T) {
	svc := newTestService(t)

	assert.False(t, svc.ValidateState("never-issued"))
}

// buildUnsignedIDToken forges a JWT-shaped ID token for claim extraction tests.
func buildUnsignedIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	encode := func(v any) string {
		raw, err := json.Marshal(v)
		require.NoError(t, err)

		return base64.RawURLEncoding.EncodeToString(raw)
	}

	header := encode(map[string]string{"alg": "none", "typ": "JWT"})

	return strings.Join([]string{header, encode(claims), ""}, ".")
}

func TestProfileFromIDToken(t *testing.T) {
	token := buildUnsignedIDToken(t, map[string]any{
		"sub":   "google-sub-123",
		"email": "alice@example.com",
		"name":  "Alice",
	})

	user, err := profileFromIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-123", user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
}

func TestProfileFromIDToken_RequiresSubject(t *testing.T) {
	token := buildUnsignedIDToken(t, map[string]any{"email": "alice@example.com"})

	_, err := profileFromIDToken(token)
	require.Error(t, err)
}

func TestProfileFromIDToken_RejectsGarbage(t *testing.T) {
	_, err := profileFromIDToken("not-a-jwt")
	require.Error(t, err)
}
