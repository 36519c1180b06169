package app

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/config"
	httpx "github.com/you/authsvc/internal/http"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/infrastructure/audit"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/infrastructure/database"
	"github.com/you/authsvc/internal/infrastructure/notifications"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/services"
	"github.com/you/authsvc/internal/validation"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo domain.UserRepository
	Denylist domain.TokenDenylist

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	CookieSvc       domain.CookieService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuditLogger     domain.AuditLogger
	AuthSvc         domain.AuthService
	Validator       *validation.Validator
}

// Option adjusts a Container before its services are built
type Option func(*Container)

// WithNotifier replaces the Resend notifier
func WithNotifier(n domain.NotificationService) Option {
	return func(c *Container) { c.NotificationSvc = n }
}

// NewContainer creates and initializes all dependencies. On error every
// connection opened so far is closed.
func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*Container, error) {
	container := &Container{Config: cfg, Logger: log}
	for _, opt := range opts {
		opt(container)
	}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(ctx); err != nil {
		container.Close()
		return nil, err
	}

	container.initRepositories()

	if err := container.initServices(); err != nil {
		container.Close()
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DatabaseURL, gormLogLevel(c.Config.LogLevel))
	if err != nil {
		return err
	}

	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return err
	}

	c.DB = db
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	client, err := database.NewRedis(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.RedisClient = client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.Denylist = repositories.NewTokenDenylist(c.RedisClient)
}

func (c *Container) initServices() error {
	passwordSvc, err := auth.NewPasswordService(c.Config.BcryptCost)
	if err != nil {
		return err
	}
	c.PasswordSvc = passwordSvc
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer)
	c.CookieSvc = auth.NewCookieService(c.Config.CookieSecret, c.Config.CookieMaxAge, c.Config.IsProduction())
	if c.NotificationSvc == nil {
		c.NotificationSvc = notifications.NewResendService(c.Config.ResendAPIKey, c.Config.MailFrom, !c.Config.IsProduction())
	}
	c.OTPSvc = services.NewOTPService()
	c.AuditLogger = audit.NewSlogAuditLogger()
	c.Validator = validation.New()

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OTPSvc,
		c.NotificationSvc,
		c.Denylist,
		c.AuditLogger,
		services.AuthConfig{
			TokenTTL:          c.Config.TokenTTL,
			OTPTTL:            c.Config.OTPTTL,
			UniformAuthErrors: c.Config.UniformAuthErrors,
		},
	)

	return nil
}

// Router builds the HTTP handler over the container's services
func (c *Container) Router() *gin.Engine {
	authH := handlers.NewAuthHandlers(c.AuthSvc, c.CookieSvc, c.Validator)
	authMW := middleware.NewAuthMW(c.TokenSvc, c.CookieSvc, c.Denylist)
	return httpx.BuildRouter(c.Logger, authH, authMW)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		return database.Close(c.DB)
	}

	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "trace", "debug":
		return logger.Info
	case "info", "warn":
		return logger.Warn
	case "error", "fatal":
		return logger.Error
	}
	return logger.Warn
}
