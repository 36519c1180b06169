package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// Context keys set by RequireSession
const (
	ClaimsKey = "session_claims"
	UserIDKey = "user_id"
)

// AuthMW authenticates requests from the signed session cookie
type AuthMW struct {
	tokenSvc  domain.TokenService
	cookieSvc domain.CookieService
	denylist  domain.TokenDenylist
}

// NewAuthMW creates new auth middleware
func NewAuthMW(tokenSvc domain.TokenService, cookieSvc domain.CookieService, denylist domain.TokenDenylist) *AuthMW {
	return &AuthMW{
		tokenSvc:  tokenSvc,
		cookieSvc: cookieSvc,
		denylist:  denylist,
	}
}

// RequireSession rejects requests without a valid, unrevoked session token
func (mw *AuthMW) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := logging.FromContext(c.Request.Context())

		token, err := mw.cookieSvc.Read(c.Request)
		if err != nil {
			logger.Debug("session cookie rejected", slog.Any("error", err))
			unauthorized(c)
			return
		}

		claims, err := mw.tokenSvc.Validate(token)
		if err != nil {
			logger.Debug("session token rejected", slog.Any("error", err))
			unauthorized(c)
			return
		}

		revoked, err := mw.denylist.IsRevoked(c.Request.Context(), claims.TokenID)
		if err != nil {
			logger.Error("denylist lookup failed", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		if revoked {
			logger.Debug("session token rejected", slog.Any("error", domain.ErrTokenRevoked))
			unauthorized(c)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(),
			logger.With(slog.Uint64("user_id", uint64(claims.UserID)))))

		c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireSession
func ClaimsFrom(c *gin.Context) (*domain.TokenClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.TokenClaims)
	return claims, ok && claims != nil
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
}
