package domain

import (
	"errors"
	"sort"
	"strings"
)

// Validation errors
var (
	ErrValidation = errors.New("validation failed")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrHashing            = errors.New("password hashing failed")
)

// OTP errors
var (
	ErrOTPInvalid = errors.New("invalid otp code")
	ErrOTPExpired = errors.New("otp has expired")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenRevoked   = errors.New("token has been revoked")
	ErrTokenMissing   = errors.New("session token not provided")
)

// Authorization and collaborator errors
var (
	ErrForbidden = errors.New("access to resource denied")
	ErrNotifier  = errors.New("notification delivery failed")
)

// ValidationError carries field-level messages for malformed input
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first one
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
