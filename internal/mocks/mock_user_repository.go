package mocks

import (
	"context"
	"time"

	"github.com/you/authsvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc               func(ctx context.Context, user *domain.User) error
	FindByEmailFunc          func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc             func(ctx context.Context, id uint) (*domain.User, error)
	CountByEmailFunc         func(ctx context.Context, email string) (int64, error)
	FindByEmailForUpdateFunc func(ctx context.Context, email string) (*domain.User, error)
	SetOTPFunc               func(ctx context.Context, userID uint, code string, expiry, now time.Time) error
	ClearOTPFunc             func(ctx context.Context, userID uint, code string, now time.Time) error
	TouchLoginFunc           func(ctx context.Context, userID uint, now time.Time) error
	WithTxFunc               func(ctx context.Context, fn func(tx domain.UserRepository) error) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// CountByEmail counts users with the given email
func (m *MockUserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	if m.CountByEmailFunc != nil {
		return m.CountByEmailFunc(ctx, email)
	}
	return 0, nil
}

// FindByEmailForUpdate falls back to FindByEmailFunc when not set
func (m *MockUserRepository) FindByEmailForUpdate(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailForUpdateFunc != nil {
		return m.FindByEmailForUpdateFunc(ctx, email)
	}
	return m.FindByEmail(ctx, email)
}

// SetOTP stores an OTP challenge
func (m *MockUserRepository) SetOTP(ctx context.Context, userID uint, code string, expiry, now time.Time) error {
	if m.SetOTPFunc != nil {
		return m.SetOTPFunc(ctx, userID, code, expiry, now)
	}
	return nil
}

// ClearOTP clears an OTP challenge
func (m *MockUserRepository) ClearOTP(ctx context.Context, userID uint, code string, now time.Time) error {
	if m.ClearOTPFunc != nil {
		return m.ClearOTPFunc(ctx, userID, code, now)
	}
	return nil
}

// TouchLogin records a login time
func (m *MockUserRepository) TouchLogin(ctx context.Context, userID uint, now time.Time) error {
	if m.TouchLoginFunc != nil {
		return m.TouchLoginFunc(ctx, userID, now)
	}
	return nil
}

// WithTx runs fn against the mock itself unless WithTxFunc is set
func (m *MockUserRepository) WithTx(ctx context.Context, fn func(tx domain.UserRepository) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(m)
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
