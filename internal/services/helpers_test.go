package services

import (
	"context"
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/mocks"
)

// testDeps bundles the mocks behind an AuthServiceImpl under test
type testDeps struct {
	userRepo    *mocks.MockUserRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	otpSvc      *mocks.MockOTPService
	notifier    *mocks.MockNotificationService
	denylist    *mocks.MockTokenDenylist
	auditLogger *mocks.MockAuditLogger
}

func newTestDeps() *testDeps {
	return &testDeps{
		userRepo:    mocks.NewMockUserRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		otpSvc:      mocks.NewMockOTPService(),
		notifier:    mocks.NewMockNotificationService(),
		denylist:    mocks.NewMockTokenDenylist(),
		auditLogger: mocks.NewMockAuditLogger(),
	}
}

func defaultTestConfig() AuthConfig {
	return AuthConfig{
		TokenTTL: 5 * time.Minute,
		OTPTTL:   15 * time.Minute,
	}
}

// createAuthServiceForTest creates an AuthService with mock dependencies and a fixed clock
func createAuthServiceForTest(t *testing.T, deps *testDeps, cfg AuthConfig, now time.Time) *AuthServiceImpl {
	t.Helper()

	svc := NewAuthService(
		deps.userRepo,
		deps.passwordSvc,
		deps.tokenSvc,
		deps.otpSvc,
		deps.notifier,
		deps.denylist,
		deps.auditLogger,
		cfg,
	).(*AuthServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           1,
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: "hashed_Abcdef1!",
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

// createChallengedUser creates a user with an outstanding OTP challenge
func createChallengedUser(t *testing.T, code string, expiry time.Time) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.OTPCode = &code
	user.OTPExpiry = &expiry
	return user
}

func createTestContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
