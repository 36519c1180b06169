package mocks

import "github.com/you/authsvc/domain"

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateFunc func() (string, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Generate produces a code
func (m *MockOTPService) Generate() (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	// Default behavior: fixed code
	return "123456", nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
