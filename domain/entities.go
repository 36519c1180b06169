package domain

import "time"

// User represents a registered principal
type User struct {
	ID               uint
	Name             string
	Email            string
	PasswordHash     string
	OTPCode          *string
	OTPExpiry        *time.Time
	LastLogin        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResetToken       *string // reserved, no reset flow yet
	ResetTokenExpiry *time.Time
	IsActive         bool
}

// HasChallenge reports whether an OTP challenge is outstanding
func (u *User) HasChallenge() bool {
	return u.OTPCode != nil && u.OTPExpiry != nil
}

// Profile returns the fields that may leave the service
func (u *User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email}
}

// Profile is the public view of a user
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OTPChallenge is a freshly issued one-time passcode
type OTPChallenge struct {
	UserID    uint
	Email     string
	Code      string
	ExpiresAt time.Time
}

// AuthResult represents a successful OTP verification
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
