package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authsys-server/internal/model"
)

var testConfig = Config{
	Secret:     "secret",
	Algorithm:  "HS256",
	AccessTTL:  15 * time.Minute,
	RefreshTTL: 24 * time.Hour,
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestJWT(t *testing.T, clock *fakeClock) *JWT {
	t.Helper()
	j, err := NewJWT(testConfig, WithClock(clock.Now))
	require.NoError(t, err)
	return j
}

func decodeSegment(t *testing.T, tokenString string) map[string]any {
	t.Helper()
	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j, err := NewJWT(testConfig)
	require.NoError(t, err)
	u := uuid.NewString()

	access, err := j.IssueAccess(u)
	require.NoError(t, err)

	got, err := j.Decode(access, model.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, u, got.Subject)
	assert.Equal(t, model.TokenTypeAccess, got.Type)
	assert.Empty(t, got.JTI)
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	j, err := NewJWT(testConfig)
	require.NoError(t, err)
	u := uuid.NewString()

	refresh, jti, exp, err := j.IssueRefresh(u, "")
	require.NoError(t, err)
	require.NotEmpty(t, jti)
	_, err = uuid.Parse(jti)
	require.NoError(t, err)

	got, err := j.Decode(refresh, model.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, u, got.Subject)
	assert.Equal(t, jti, got.JTI)
	assert.True(t, exp.Equal(got.ExpiresAt))
}

func TestJWT_RefreshToken_KeepsProvidedJTI(t *testing.T) {
	j, err := NewJWT(testConfig)
	require.NoError(t, err)

	_, jti, _, err := j.IssueRefresh("1", "fixed-jti")
	require.NoError(t, err)
	assert.Equal(t, "fixed-jti", jti)
}

func TestJWT_WireFormat(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	j := newTestJWT(t, clock)

	access, err := j.IssueAccess("42")
	require.NoError(t, err)
	payload := decodeSegment(t, access)
	assert.Equal(t, map[string]any{
		"sub": "42",
		"typ": "access",
		"iat": float64(1_700_000_000),
		"exp": float64(1_700_000_000 + 15*60),
	}, payload)

	refresh, jti, _, err := j.IssueRefresh("42", "")
	require.NoError(t, err)
	payload = decodeSegment(t, refresh)
	assert.Equal(t, map[string]any{
		"sub": "42",
		"typ": "refresh",
		"jti": jti,
		"iat": float64(1_700_000_000),
		"exp": float64(1_700_000_000 + 24*60*60),
	}, payload)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j, err := NewJWT(testConfig)
	require.NoError(t, err)
	u := uuid.NewString()

	access, err := j.IssueAccess(u)
	require.NoError(t, err)
	refresh, _, _, err := j.IssueRefresh(u, "")
	require.NoError(t, err)

	_, err = j.Decode(access, model.TokenTypeRefresh)
	require.ErrorIs(t, err, model.ErrWrongTokenType)

	_, err = j.Decode(refresh, model.TokenTypeAccess)
	require.ErrorIs(t, err, model.ErrWrongTokenType)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	j := newTestJWT(t, clock)

	access, err := j.IssueAccess("7")
	require.NoError(t, err)
	refresh, _, _, err := j.IssueRefresh("7", "")
	require.NoError(t, err)

	clock.now = clock.now.Add(testConfig.AccessTTL - time.Second)
	_, err = j.Decode(access, model.TokenTypeAccess)
	require.NoError(t, err)

	clock.now = time.Unix(1_700_000_000, 0).Add(testConfig.AccessTTL)
	_, err = j.Decode(access, model.TokenTypeAccess)
	require.ErrorIs(t, err, model.ErrTokenExpired)
	require.NotErrorIs(t, err, model.ErrTokenInvalid)

	_, err = j.Decode(refresh, model.TokenTypeRefresh)
	require.NoError(t, err)

	clock.now = time.Unix(1_700_000_000, 0).Add(testConfig.RefreshTTL)
	_, err = j.Decode(refresh, model.TokenTypeRefresh)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_InvalidTokens(t *testing.T) {
	j, err := NewJWT(testConfig)
	require.NoError(t, err)

	valid, err := j.IssueAccess("1")
	require.NoError(t, err)

	other, err := NewJWT(Config{Secret: "other", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.NoError(t, err)
	foreign, err := other.IssueAccess("1")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	forgedPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"2","typ":"access","iat":1,"exp":9999999999}`))
	tampered := parts[0] + "." + forgedPayload + "." + parts[2]

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: model.TokenTypeAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := NewJWT(Config{Secret: "secret", Algorithm: "HS512", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.NoError(t, err)
	otherAlg, err := hs512.IssueAccess("1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "foreign secret", token: foreign},
		{name: "tampered payload", token: tampered},
		{name: "alg none", token: unsigned},
		{name: "unexpected algorithm", token: otherAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Decode(tt.token, model.TokenTypeAccess)
			require.ErrorIs(t, err, model.ErrTokenInvalid)
		})
	}
}

func TestNewJWT_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown algorithm", cfg: Config{Secret: "s", Algorithm: "RS256", AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{name: "empty secret", cfg: Config{AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{name: "zero ttl", cfg: Config{Secret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWT(tt.cfg)
			require.Error(t, err)
		})
	}
}
