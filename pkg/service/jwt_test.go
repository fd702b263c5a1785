package service

import (
	"testing"
	"time"

	apperrors "solarforyou/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	token, err := svc.GenerateToken(42, "kierownik")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "kierownik", claims.Username)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, zap.NewNop())
	token, err := svc.GenerateToken(1, "a")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour, zap.NewNop()).GenerateToken(1, "a")
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
