package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/authsvc/domain"
)

// MaxPasswordBytes is the bcrypt input bound.
const MaxPasswordBytes = 72

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost      int
	dummyHash []byte
}

// NewPasswordService creates a bcrypt password service with the given work factor
func NewPasswordService(cost int) (domain.PasswordService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: cost %d outside [%d, %d]", domain.ErrHashing, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// Compared against when the stored digest is unusable so a bad digest
	// costs the same CPU as a real mismatch.
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}

	return &PasswordServiceImpl{cost: cost, dummyHash: dummy}, nil
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password exceeds %d bytes", domain.ErrHashing, MaxPasswordBytes)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	// bcrypt ignores input past MaxPasswordBytes, so longer candidates never
	// match a stored digest.
	if len(password) > MaxPasswordBytes {
		_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(password[:MaxPasswordBytes]))
		return false
	}
	if _, err := bcrypt.Cost([]byte(hashedPassword)); err != nil {
		_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
