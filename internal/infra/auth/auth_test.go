package auth

import (
	"testing"

	"flightdeck/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.BcryptCost = 10
	cfg.Session.Secret = "unit-test-secret"

	return cfg
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(testConfig())

	hash, err := hasher.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash, "password must never be stored in plaintext")

	assert.True(t, hasher.Check("pw1", hash))
	assert.False(t, hasher.Check("pw2", hash))
}

func TestBcryptHasher_UniqueSalts(t *testing.T) {
	hasher := NewBcryptHasher(testConfig())

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSessionTokenSource_GenerateIsRandom(t *testing.T) {
	source := NewSessionTokenSource(testConfig())

	first, err := source.Generate()
	require.NoError(t, err)
	second, err := source.Generate()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestSessionTokenSource_HashIsKeyedAndStable(t *testing.T) {
	source := NewSessionTokenSource(testConfig())

	token, err := source.Generate()
	require.NoError(t, err)

	assert.Equal(t, source.Hash(token), source.Hash(token))
	assert.NotEqual(t, token, source.Hash(token))

	otherCfg := testConfig()
	otherCfg.Session.Secret = "different-secret"
	otherSource := NewSessionTokenSource(otherCfg)
	assert.NotEqual(t, source.Hash(token), otherSource.Hash(token),
		"hash must depend on the configured secret")
}
