// backend/src/services/otp_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRoundTrip(t *testing.T) {
	svc := NewOTPService()

	secret, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	code, err := svc.CurrentCode(secret)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.True(t, svc.ValidateCode(secret, code))
	assert.False(t, svc.ValidateCode(secret, "000000"))
	assert.False(t, svc.ValidateCode("", code))
}

func TestGenerateSecretUniquePerCall(t *testing.T) {
	svc := NewOTPService()

	a, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)
	b, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
