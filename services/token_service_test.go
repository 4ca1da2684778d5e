package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/utils/mocks"
)

func newTestTokens(clock *mocks.MockClock) TokenService {
	return NewTokenService(TokenConfig{Secret: []byte("s3cret"), Issuer: "eulark"}, clock)
}

func TestTokenRoundTrip(t *testing.T) {
	clock := mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tokens := newTestTokens(clock)

	raw, err := tokens.IssuePlayerToken(&models.Player{ID: 7, PlayerName: "alice"})
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.ID)
	assert.Equal(t, "alice", claims.PlayerName)
	assert.Equal(t, "7", claims.Subject)
	assert.False(t, claims.IsAdmin)
}

func TestTokenExpires(t *testing.T) {
	clock := mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tokens := newTestTokens(clock)

	raw, err := tokens.IssueAdminToken(&models.AdminUser{ID: 1, Username: "root"})
	require.NoError(t, err)

	clock.Advance(7 * time.Hour)
	_, err = tokens.Verify(raw)
	assert.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsForgeries(t *testing.T) {
	clock := mocks.NewMockClock(time.Now())
	tokens := newTestTokens(clock)

	other := NewTokenService(TokenConfig{Secret: []byte("other"), Issuer: "eulark"}, clock)
	forged, err := other.IssueAdminToken(&models.AdminUser{ID: 1, Username: "root"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: 1, IsAdmin: true})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret": forged,
		"alg none":     unsigned,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenRejectsWrongIssuer(t *testing.T) {
	clock := mocks.NewMockClock(time.Now())
	foreign := NewTokenService(TokenConfig{Secret: []byte("s3cret"), Issuer: "someone-else"}, clock)
	raw, err := foreign.IssuePlayerToken(&models.Player{ID: 3, PlayerName: "bob"})
	require.NoError(t, err)

	_, err = newTestTokens(clock).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
