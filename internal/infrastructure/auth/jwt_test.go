package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeyard/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars-long",
		TokenExpiration: expiration,
		Issuer:          "tradeyard-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)
	userID := uuid.New()

	token, err := svc.Generate(userID, "clerk")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "clerk", claims.Username)
	assert.Equal(t, "tradeyard-test", claims.Issuer)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, userID, actor.ID)
	assert.Equal(t, "clerk", actor.Name)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, err := svc.Generate(uuid.New(), "clerk")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := newTestService(time.Hour).Generate(uuid.New(), "clerk")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:          "a-completely-different-signing-secret!!",
		TokenExpiration: time.Hour,
		Issuer:          "tradeyard-test",
	})

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestService(time.Hour).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActorRejectsMalformedUserID(t *testing.T) {
	claims := &Claims{UserID: "nope", Username: "clerk"}
	_, err := claims.Actor()
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
