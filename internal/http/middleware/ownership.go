package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/internal/logging"
)

// RequireOwner allows the request only when the session's user ID equals the
// numeric path parameter. It must run after RequireSession.
func (mw *AuthMW) RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			unauthorized(c)
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{param: "must be a positive integer"},
			})
			return
		}

		if uint(id) != claims.UserID {
			logging.FromContext(c.Request.Context()).Warn("ownership check failed",
				"requested_id", id,
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.Next()
	}
}
