// backend/src/services/otp_service.go
package services

import (
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
)

// OTPService issues and checks the time-based codes used for account verification.
type OTPService struct{}

func NewOTPService() *OTPService {
	return &OTPService{}
}

// GenerateSecret creates a new TOTP secret for the given account.
func (s *OTPService) GenerateSecret(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "OpenAudit",
		AccountName: email,
	})
	if err != nil {
		return "", fmt.Errorf("generating OTP secret: %w", err)
	}
	return key.Secret(), nil
}

// CurrentCode returns the code valid for the current time window.
func (s *OTPService) CurrentCode(secret string) (string, error) {
	return totp.GenerateCode(secret, time.Now())
}

// ValidateCode checks a code against the secret, allowing slight clock skew.
func (s *OTPService) ValidateCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
