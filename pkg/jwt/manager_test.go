package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	m := NewManager("test-secret", 900, 86400)

	token, err := m.GenerateAccessToken("42", "13800138000", "Grandma Li")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "13800138000", claims.Phone)
	assert.Equal(t, "Grandma Li", claims.Nickname)
	assert.Equal(t, "access", claims.Type)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	m := NewManager("secret-a", 900, 86400)
	other := NewManager("secret-b", 900, 86400)

	token, err := m.GenerateAccessToken("1", "13800138000", "nick")
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -1, 86400)

	token, err := m.GenerateAccessToken("1", "13800138000", "nick")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	m := NewManager("test-secret", 900, 86400)
	_, err := m.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenType(t *testing.T) {
	m := NewManager("test-secret", 900, 86400)

	token, err := m.GenerateRefreshToken("7")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "refresh", claims.Type)
	assert.Empty(t, claims.Phone)
}
