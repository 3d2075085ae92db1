package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken("doctor-123", RoleDoctor, "asha@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "doctor-123", claims.Subject)
	assert.Equal(t, RoleDoctor, claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).GenerateToken("id", RoleAdmin, "")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.expiry = -time.Minute

	token, err := svc.GenerateToken("id", RolePatient, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
