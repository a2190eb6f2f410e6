package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "casenotes/pkg/domain-errors"
	"casenotes/pkg/requestcontext"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer")

var caller = requestcontext.User{
	ID:          "user-1",
	Username:    "jsmith",
	DisplayName: "J Smith",
}

func Test_GenerateAndValidateToken(t *testing.T) {
	token, err := jwtService.GenerateToken(caller, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, caller, user)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateToken(caller, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("different-key", "test-issuer")
	token, err := other.GenerateToken(caller, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_SubjectFallback(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "jsmith",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := raw.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	user, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jsmith", user.ID)
	assert.Equal(t, "jsmith", user.Username)
}

func Test_ValidateToken_NoIdentity(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := raw.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
