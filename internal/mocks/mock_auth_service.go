package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc         func(ctx context.Context, name, email, password string) (*domain.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.User, error)
	RequestOTPFunc     func(ctx context.Context, email string) (*domain.OTPChallenge, error)
	VerifyOTPFunc      func(ctx context.Context, email, code string) (*domain.AuthResult, error)
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
	LogoutFunc         func(ctx context.Context, claims *domain.TokenClaims) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Signup registers a user
func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	return &domain.User{ID: 1, Name: name, Email: email, IsActive: true}, nil
}

// Login authenticates with a password
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// RequestOTP issues a challenge
func (m *MockAuthService) RequestOTP(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	if m.RequestOTPFunc != nil {
		return m.RequestOTPFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// VerifyOTP completes a challenge
func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code)
	}
	return nil, domain.ErrOTPInvalid
}

// GetUserProfile loads a user
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Logout revokes a session
func (m *MockAuthService) Logout(ctx context.Context, claims *domain.TokenClaims) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, claims)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
