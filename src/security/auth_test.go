// backend/src/security/auth_test.go
package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaudit/backend/src/config"
)

func init() {
	config.Cfg = &config.AppConfig{AccessTokenExpiry: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret-with-enough-entropy-0123")

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("test-secret-with-enough-entropy-0123")
	verifier := NewAuthService("a-completely-different-secret-456789")

	token, err := issuer.GenerateToken("42")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret-with-enough-entropy-0123")

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	prev := config.Cfg.AccessTokenExpiry
	config.Cfg.AccessTokenExpiry = -time.Minute
	defer func() { config.Cfg.AccessTokenExpiry = prev }()

	svc := NewAuthService("test-secret-with-enough-entropy-0123")
	token, err := svc.GenerateToken("42")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	svc := NewAuthService("test-secret-with-enough-entropy-0123")

	a, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
