package jwt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken(Claims{
		UserID:     "u-1",
		EmployeeID: "EMP-7",
		Email:      "jane@faculty.test",
		IsAdmin:    true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, "EMP-7", claims["employee_id"])
	assert.Equal(t, "jane@faculty.test", claims["email"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "fifteen")
	_, _, err := svc.GenerateAccessToken(Claims{UserID: "u-1"})
	assert.Error(t, err)
}

func TestSSEToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresIn, err := svc.GenerateSSEToken("u-1", true)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, isAdmin, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.True(t, isAdmin)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	access, _, err := svc.GenerateAccessToken(Claims{UserID: "u-1"})
	require.NoError(t, err)

	_, _, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestValidateSSEToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "15m")
	verifier := NewJWTService("secret-b", "15m")

	token, _, err := issuer.GenerateSSEToken("u-1", false)
	require.NoError(t, err)

	_, _, err = verifier.ValidateSSEToken(token)
	assert.Error(t, err)
}
