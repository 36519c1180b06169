package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/validation"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc   domain.AuthService
	cookieSvc domain.CookieService
	validator *validation.Validator
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookieSvc domain.CookieService, v *validation.Validator) *AuthHandlers {
	return &AuthHandlers{
		authSvc:   authSvc,
		cookieSvc: cookieSvc,
		validator: v,
	}
}

// Signup handles POST /signin
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req validation.SignupInput
	if !h.bindJSON(c, &req) {
		return
	}

	if _, err := h.authSvc.Signup(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Login handles POST /login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req validation.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Profile(),
	})
}

// RequestLogin handles POST /request-login. The answer is the same whether
// or not a code was actually sent.
func (h *AuthHandlers) RequestLogin(c *gin.Context) {
	var req validation.OTPRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	if _, err := h.authSvc.RequestOTP(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "A login code has been sent to your email"})
}

// VerifyCode handles POST /verify-code and opens the session
func (h *AuthHandlers) VerifyCode(c *gin.Context) {
	var req validation.OTPVerifyInput
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), req.Email, req.OTPCode)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.cookieSvc.Set(c.Writer, result.Token); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    result.User.Profile(),
	})
}

// Profile handles GET /auth/profile/:id (requires an owning session)
func (h *AuthHandlers) Profile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		verr := domain.NewValidationError()
		verr.Add("id", "must be a positive integer")
		writeError(c, verr)
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile",
		"user":    user.Profile(),
	})
}

// Logout handles POST /auth/logout (requires a session)
func (h *AuthHandlers) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		writeError(c, domain.ErrTokenMissing)
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		writeError(c, err)
		return
	}

	h.cookieSvc.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
