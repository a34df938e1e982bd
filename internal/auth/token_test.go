package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenGenerator(t *testing.T) {
	tg := NewTokenGenerator("secret", time.Hour, 5*24*time.Hour)

	assert.NotNil(t, tg)
	assert.Equal(t, "secret", tg.secret)
	assert.Equal(t, time.Hour, tg.AccessTokenExpiry())
	assert.Equal(t, 5*24*time.Hour, tg.RefreshTokenExpiry())
}

func TestTokenGenerator_GenerateTokens(t *testing.T) {
	tg := NewTokenGenerator("b8a3c2267dc85f855dea9b46b452bf20", time.Hour, 7*24*time.Hour)

	t.Run("access token carries user and role", func(t *testing.T) {
		accessToken, refreshToken, err := tg.GenerateTokens(123, 2)
		require.NoError(t, err)
		assert.NotEqual(t, accessToken, refreshToken)

		userID, role, err := tg.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, 123, userID)
		assert.Equal(t, 2, role)
	})

	t.Run("refresh tokens are unique", func(t *testing.T) {
		_, first, err := tg.GenerateTokens(1, 1)
		require.NoError(t, err)
		_, second, err := tg.GenerateTokens(1, 1)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.NoError(t, tg.ValidateRefreshToken(first))
	})
}

func TestTokenGenerator_ValidateAccessToken(t *testing.T) {
	tg := NewTokenGenerator("secret", time.Hour, time.Hour)
	_, refreshToken, err := tg.GenerateTokens(1, 1)
	require.NoError(t, err)

	expired := NewTokenGenerator("secret", -time.Minute, time.Hour)
	expiredToken, _, err := expired.GenerateTokens(1, 1)
	require.NoError(t, err)

	other := NewTokenGenerator("other-secret", time.Hour, time.Hour)
	foreignToken, _, err := other.GenerateTokens(1, 1)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1, "role": 3, "type": "access", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "refresh token rejected", token: refreshToken},
		{name: "expired token", token: expiredToken},
		{name: "wrong secret", token: foreignToken},
		{name: "none algorithm", token: noneToken},
		{name: "garbage", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tg.ValidateAccessToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestTokenGenerator_ValidateRefreshToken(t *testing.T) {
	tg := NewTokenGenerator("secret", time.Hour, time.Hour)
	accessToken, refreshToken, err := tg.GenerateTokens(1, 1)
	require.NoError(t, err)

	assert.NoError(t, tg.ValidateRefreshToken(refreshToken))
	assert.Error(t, tg.ValidateRefreshToken(accessToken))
}
