package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/you/authsvc/domain"
)

// OTPCodeLength is the number of digits in a one-time passcode
const OTPCodeLength = 6

var otpSpace = big.NewInt(1_000_000)

// OTPServiceImpl implements domain.OTPService
type OTPServiceImpl struct {
	random io.Reader
}

// NewOTPService creates an OTP generator backed by crypto/rand
func NewOTPService() domain.OTPService {
	return &OTPServiceImpl{random: rand.Reader}
}

// Generate implements domain.OTPService. Codes are uniform over
// 000000-999999; rand.Int rejects out-of-range samples instead of using a
// biased modulo.
func (s *OTPServiceImpl) Generate() (string, error) {
	n, err := rand.Int(s.random, otpSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPCodeLength, n.Int64()), nil
}
