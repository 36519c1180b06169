package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// AuthConfig holds the tunables of the authentication flows
type AuthConfig struct {
	TokenTTL time.Duration
	OTPTTL   time.Duration
	// UniformAuthErrors hides whether an account exists: unknown emails get
	// the same answer as a wrong secret, after comparable work.
	UniformAuthErrors bool
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	otpSvc          domain.OTPService
	notificationSvc domain.NotificationService
	denylist        domain.TokenDenylist
	auditLogger     domain.AuditLogger
	config          AuthConfig
	now             func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	notificationSvc domain.NotificationService,
	denylist domain.TokenDenylist,
	auditLogger domain.AuditLogger,
	config AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		otpSvc:          otpSvc,
		notificationSvc: notificationSvc,
		denylist:        denylist,
		auditLogger:     auditLogger,
		config:          config,
		now:             time.Now,
	}
}

// clock returns the current time at the precision every supported store keeps
func (s *AuthServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.audit(ctx, domain.NewAuditEvent(domain.UserSignupEvent, 0).WithEmail(email).WithError(domain.ErrDuplicateAccount))
		return nil, domain.ErrDuplicateAccount
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserSignupEvent, user.ID).WithEmail(email))
	return user, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).WithEmail(email).WithError(err))
		if s.config.UniformAuthErrors {
			// An empty digest makes Verify burn a full comparison
			s.passwordSvc.Verify("", password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrUserNotFound
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithEmail(email).WithError(domain.ErrUserInactive))
		return nil, domain.ErrUserInactive
	}

	now := s.clock()
	if err := s.userRepo.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = now
	user.UpdatedAt = now

	s.audit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(email).WithMetadata("method", "password"))
	return user, nil
}

// RequestOTP implements domain.AuthService. The challenge is persisted before
// the email is sent and stays in place when delivery fails. In uniform mode
// an unknown email yields (nil, nil) and nothing is sent.
func (s *AuthServiceImpl) RequestOTP(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		if s.config.UniformAuthErrors {
			logging.FromContext(ctx).Debug("otp requested for unknown email")
			return nil, nil
		}
		return nil, domain.ErrUserNotFound
	}

	code, err := s.otpSvc.Generate()
	if err != nil {
		return nil, err
	}

	now := s.clock()
	expiry := now.Add(s.config.OTPTTL)
	if err := s.userRepo.SetOTP(ctx, user.ID, code, expiry, now); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	challenge := &domain.OTPChallenge{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: expiry,
	}

	subject := "Your login code"
	body := fmt.Sprintf("Your login code is %s. It expires in %d minutes.", code, int(s.config.OTPTTL.Minutes()))
	if err := s.notificationSvc.SendEmail(ctx, user.Email, subject, body); err != nil {
		logging.FromContext(ctx).Error("otp delivery failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.Any("error", err),
		)
		s.audit(ctx, domain.NewAuditEvent(domain.OTPDeliveryFailedEvent, user.ID).WithEmail(user.Email).WithError(err))
	}

	s.audit(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("expires_at", expiry.Format(time.RFC3339)))

	return challenge, nil
}

// VerifyOTP implements domain.AuthService. The row is re-read and cleared in
// one transaction, and the clear only applies while the stored code is still
// the one that was checked.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	now := s.clock()

	var result *domain.AuthResult
	err := s.userRepo.WithTx(ctx, func(tx domain.UserRepository) error {
		user, err := tx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}

		if !user.HasChallenge() || subtle.ConstantTimeCompare([]byte(*user.OTPCode), []byte(code)) != 1 {
			return domain.ErrOTPInvalid
		}
		// Expiry is checked even for a matching code
		if now.After(*user.OTPExpiry) {
			return domain.ErrOTPExpired
		}
		if !user.IsActive {
			return domain.ErrUserInactive
		}

		if err := tx.ClearOTP(ctx, user.ID, *user.OTPCode, now); err != nil {
			return err
		}
		user.OTPCode, user.OTPExpiry = nil, nil
		user.LastLogin, user.UpdatedAt = now, now

		token, err := s.tokenSvc.Issue(domain.TokenClaims{UserID: user.ID, Email: user.Email}, s.config.TokenTTL)
		if err != nil {
			return fmt.Errorf("failed to issue session token: %w", err)
		}

		result = &domain.AuthResult{
			User:      user,
			Token:     token,
			ExpiresAt: now.Add(s.config.TokenTTL),
		}
		return nil
	})

	if err != nil {
		failure := domain.NewAuditEvent(domain.OTPFailureEvent, 0).WithEmail(email).WithError(err)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			s.audit(ctx, failure)
			if s.config.UniformAuthErrors {
				return nil, domain.ErrOTPInvalid
			}
			return nil, domain.ErrUserNotFound
		case errors.Is(err, domain.ErrOTPInvalid), errors.Is(err, domain.ErrOTPExpired), errors.Is(err, domain.ErrUserInactive):
			s.audit(ctx, failure)
			return nil, err
		default:
			return nil, fmt.Errorf("failed to verify OTP: %w", err)
		}
	}

	s.audit(ctx, domain.NewAuditEvent(domain.OTPVerifyEvent, result.User.ID).WithEmail(result.User.Email))
	return result, nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, claims *domain.TokenClaims) error {
	if claims == nil || claims.TokenID == "" {
		return domain.ErrTokenInvalid
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, time.Unix(claims.ExpiresAt, 0)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, claims.UserID).WithEmail(claims.Email))
	return nil
}

func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, event)
	}
}
