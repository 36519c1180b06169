package mocks

import (
	"fmt"
	"time"

	"github.com/you/authsvc/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueFunc    func(claims domain.TokenClaims, ttl time.Duration) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue creates a token
func (m *MockTokenService) Issue(claims domain.TokenClaims, ttl time.Duration) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(claims, ttl)
	}
	// Default behavior: deterministic fake token
	return fmt.Sprintf("token_%d", claims.UserID), nil
}

// Validate validates a token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: invalid token
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
