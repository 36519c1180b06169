// Package validation holds the field rules applied to every inbound request
// before it reaches the auth flows. Rules are declared as struct tags and
// evaluated by go-playground/validator, independent of the transport.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/you/authsvc/domain"
)

// SignupInput is the payload of POST /signin.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=80,maxbytes=72,strongpassword"`
}

// LoginInput is the payload of POST /login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=80"`
}

// OTPRequestInput is the payload of POST /request-login.
type OTPRequestInput struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// OTPVerifyInput is the payload of POST /verify-code.
type OTPVerifyInput struct {
	Email   string `json:"email" validate:"required,email,max=255"`
	OTPCode string `json:"otpCode" validate:"required,len=6,number"`
}

// Normalizer is implemented by inputs that clean their fields before validation.
type Normalizer interface {
	Normalize()
}

func (in *SignupInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
}

func (in *LoginInput) Normalize()      { in.Email = NormalizeEmail(in.Email) }
func (in *OTPRequestInput) Normalize() { in.Email = NormalizeEmail(in.Email) }

func (in *OTPVerifyInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.OTPCode = strings.TrimSpace(in.OTPCode)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validator evaluates the rule set.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("strongpassword", strongPassword)
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return &Validator{v: v}
}

// Validate normalizes the input when supported, then checks every rule.
// Failures are returned as *domain.ValidationError keyed by JSON field name.
func (val *Validator) Validate(input any) error {
	if n, ok := input.(Normalizer); ok {
		n.Normalize()
	}

	err := val.v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	verr := domain.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "number":
		return "must contain only digits"
	case "strongpassword":
		return "must contain a lowercase letter, an uppercase letter, a digit and a special character"
	default:
		return "is invalid"
	}
}

// maxBytes bounds the encoded length of a string. Character counts alone let
// multibyte input past the bcrypt limit.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func strongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword reports whether s mixes lowercase, uppercase, digit and
// symbol characters.
func IsStrongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return lower && upper && digit && special
}
