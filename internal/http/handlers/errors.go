package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// errorResponse is one row of the status table used by writeError
type errorResponse struct {
	err     error
	status  int
	message string
}

// Order matters: the first matching sentinel wins.
var errorTable = []errorResponse{
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrOTPInvalid, http.StatusUnauthorized, "Invalid code"},
	{domain.ErrOTPExpired, http.StatusUnauthorized, "Code has expired"},
	{domain.ErrTokenMissing, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrTokenMalformed, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrTokenRevoked, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrUserInactive, http.StatusForbidden, "Account is inactive"},
	{domain.ErrForbidden, http.StatusForbidden, "Forbidden"},
}

// writeError maps a flow error onto a fixed status and a generic body.
// Internal details are logged, never returned.
func writeError(c *gin.Context, err error) {
	logger := logging.FromContext(c.Request.Context())

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": verr.Fields})
		return
	}

	if errors.Is(err, domain.ErrDuplicateAccount) {
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists", "error": domain.ErrDuplicateAccount.Error()})
		return
	}

	for _, row := range errorTable {
		if errors.Is(err, row.err) {
			logger.Debug("request rejected", slog.Int("status", row.status), slog.Any("error", err))
			c.JSON(row.status, gin.H{"message": row.message})
			return
		}
	}

	logger.Error("request failed", slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}

// bindJSON decodes and validates the body into input. It writes the 400
// response itself and reports whether the handler may continue.
func (h *AuthHandlers) bindJSON(c *gin.Context, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		verr := domain.NewValidationError()
		verr.Add("body", "must be a valid JSON object")
		writeError(c, verr)
		return false
	}
	if err := h.validator.Validate(input); err != nil {
		writeError(c, err)
		return false
	}
	return true
}
