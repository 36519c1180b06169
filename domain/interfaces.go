package domain

import (
	"context"
	"net/http"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	// FindByEmailForUpdate reads the row and, where the engine supports it, locks it until the
	// surrounding transaction ends.
	FindByEmailForUpdate(ctx context.Context, email string) (*User, error)
	SetOTP(ctx context.Context, userID uint, code string, expiry, now time.Time) error
	// ClearOTP clears the OTP pair only while the stored code still equals code. It returns
	// ErrOTPInvalid when the challenge was replaced or consumed concurrently.
	ClearOTP(ctx context.Context, userID uint, code string, now time.Time) error
	TouchLogin(ctx context.Context, userID uint, now time.Time) error
	WithTx(ctx context.Context, fn func(tx UserRepository) error) error
}

// AuthService defines the authentication flows
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	RequestOTP(ctx context.Context, email string) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
	Logout(ctx context.Context, claims *TokenClaims) error
}

// OTPService produces one-time passcodes
type OTPService interface {
	Generate() (string, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService issues and validates signed session tokens
type TokenService interface {
	Issue(claims TokenClaims, ttl time.Duration) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// CookieService binds session tokens to the signed auth cookie
type CookieService interface {
	Set(w http.ResponseWriter, token string) error
	Read(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

// TokenDenylist tracks tokens revoked before their expiry
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NotificationService delivers out-of-band messages
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenID   string `json:"jti,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
