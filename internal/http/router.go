package httpx

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/logging"
)

func BuildRouter(logger *slog.Logger, ah *handlers.AuthHandlers, authmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(logging.Middleware(logger), middleware.Recovery())
	r.NoRoute(middleware.NotFound())

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello you!") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	r.POST("/signin", ah.Signup)
	r.POST("/login", ah.Login)
	r.POST("/request-login", ah.RequestLogin)
	r.POST("/verify-code", ah.VerifyCode)

	auth := r.Group("/auth", authmw.RequireSession())
	auth.GET("/profile/:id", authmw.RequireOwner("id"), ah.Profile)
	auth.POST("/logout", ah.Logout)

	return r
}
