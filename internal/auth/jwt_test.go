// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/maintenance-tracker/internal/config"
	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:      filepath.Join(dir, "keys", "public.pem"),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "maintenance-tracker",
		Audience:           "maintenance-tracker-api",
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	return cfg
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()

	m, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWT(t)

	access, err := m.CreateAccessToken("user-1", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)
	assert.NotEmpty(t, access.ID)

	claims, err := m.ParseAccessToken(access.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, access.ID, claims.TokenID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.WithinDuration(t, access.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig(t)
	cfg.AccessTokenExpire = -time.Minute

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)

	access, err := m.CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(access.Token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	cfg := testJWTConfig(t)

	issuer, err := NewJWTManager(cfg)
	require.NoError(t, err)

	access, err := issuer.CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	cfg.Issuer = "someone-else"
	verifier, err := NewJWTManager(cfg)
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(access.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.NotErrorIs(t, err, core.ErrTokenExpired)
}

func TestParseAccessTokenWrongAudience(t *testing.T) {
	cfg := testJWTConfig(t)

	issuer, err := NewJWTManager(cfg)
	require.NoError(t, err)

	access, err := issuer.CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	cfg.Audience = "another-api"
	verifier, err := NewJWTManager(cfg)
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(access.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.NotErrorIs(t, err, core.ErrTokenExpired)
}

func TestParseAccessTokenForeignKey(t *testing.T) {
	access, err := newTestJWT(t).CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	_, err = newTestJWT(t).ParseAccessToken(access.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := newTestJWT(t).ParseAccessToken("not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestCreateRefreshToken(t *testing.T) {
	m := newTestJWT(t)

	first, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	assert.NotEmpty(t, first.FamilyID)
	assert.Equal(t, core.DigestToken(first.Token), first.Hash)
	assert.True(t, first.ExpiresAt.After(time.Now().Add(6*24*time.Hour)))

	next, err := m.CreateRefreshToken(first.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, first.FamilyID, next.FamilyID)
	assert.NotEqual(t, first.Token, next.Token)
}

func TestJWKSHandler(t *testing.T) {
	m := newTestJWT(t)

	rec := httptest.NewRecorder()
	m.JWKSHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.Equal(t, "EC", body.Keys[0]["kty"])
	assert.NotContains(t, body.Keys[0], "d")
}
