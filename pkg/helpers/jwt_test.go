package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := testJWTManager()

	token, exp, err := m.GenerateAccessToken("user-1", "sid-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestJWTManager_SecretsAreNotInterchangeable(t *testing.T) {
	m := testJWTManager()

	access, _, err := m.GenerateAccessToken("user-1", "sid-1")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken("user-1", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, _, err := m.GenerateAccessToken("user-1", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Garbage(t *testing.T) {
	m := testJWTManager()
	_, err := m.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}
