package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const defaultConfigFile = "config/config.yml"

// Config is the process configuration. Values are layered: built-in defaults,
// then the optional YAML file, then .env, then the process environment.
type Config struct {
	Env       string `yaml:"env" env:"NODE_ENV"`
	Port      string `yaml:"port" env:"PORT"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`

	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`

	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer    string        `yaml:"jwt_issuer" env:"JWT_ISSUER"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	CookieSecret string        `yaml:"cookie_secret" env:"COOKIE_SECRET"`
	CookieMaxAge time.Duration `yaml:"cookie_max_age" env:"COOKIE_MAX_AGE"`

	OTPTTL     time.Duration `yaml:"otp_ttl" env:"OTP_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	MailFrom     string `yaml:"mail_from" env:"MAIL_FROM"`

	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD"`
	UniformAuthErrors   bool          `yaml:"uniform_auth_errors" env:"UNIFORM_AUTH_ERRORS"`
	SeedDemoUsers       bool          `yaml:"seed_demo_users" env:"SEED_DEMO_USERS"`
}

// FieldErrors lists every invalid configuration value by variable name.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(fe[k], ", ")))
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Default returns the built-in configuration values.
func Default() *Config {
	return &Config{
		Env:                 EnvDevelopment,
		Port:                "5050",
		LogLevel:            "info",
		RedisAddr:           "localhost:6379",
		JWTIssuer:           "authsvc",
		TokenTTL:            5 * time.Minute,
		CookieMaxAge:        7 * 24 * time.Hour,
		OTPTTL:              15 * time.Minute,
		BcryptCost:          12,
		MailFrom:            "Auth <onboarding@resend.dev>",
		ShutdownGracePeriod: 10 * time.Second,
	}
}

// Load builds the configuration from all sources and validates it.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSeeder builds the configuration for the demo-account seeder. Only the
// store, hashing and logging settings are validated; session secrets may be
// absent.
func LoadSeeder() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	fe := FieldErrors{}
	cfg.validateCommon(fe)
	if len(fe) > 0 {
		return nil, fe
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	if err := loadConfigFile(path, cfg); err != nil {
		return nil, err
	}

	// .env is optional; real environment variables take precedence over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

// Validate checks every field and reports all failures at once.
func (c *Config) Validate() error {
	fe := FieldErrors{}
	c.validateCommon(fe)

	if c.Port == "" {
		fe.add("PORT", "is required")
	}
	if c.JWTSecret == "" {
		fe.add("JWT_SECRET", "is required")
	}
	if len(c.CookieSecret) < 32 {
		fe.add("COOKIE_SECRET", "must be at least 32 bytes")
	}
	if c.TokenTTL <= 0 {
		fe.add("TOKEN_TTL", "must be positive")
	}
	if c.CookieMaxAge <= 0 {
		fe.add("COOKIE_MAX_AGE", "must be positive")
	}
	if c.OTPTTL <= 0 {
		fe.add("OTP_TTL", "must be positive")
	}
	if c.ShutdownGracePeriod < 0 {
		fe.add("SHUTDOWN_GRACE_PERIOD", "must not be negative")
	}

	if len(fe) > 0 {
		return fe
	}
	return nil
}

func (c *Config) validateCommon(fe FieldErrors) {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		fe.add("NODE_ENV", "must be one of development, production, test")
	}

	switch strings.ToLower(c.LogLevel) {
	case "fatal", "error", "warn", "info", "debug", "trace":
	default:
		fe.add("LOG_LEVEL", "must be one of fatal, error, warn, info, debug, trace")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "json", "text":
	default:
		fe.add("LOG_FORMAT", "must be json or text")
	}

	if c.DatabaseURL == "" {
		fe.add("DATABASE_URL", "is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		fe.add("BCRYPT_COST", fmt.Sprintf("must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ResolvedLogFormat falls back to json in production and text elsewhere.
func (c *Config) ResolvedLogFormat() string {
	if c.LogFormat != "" {
		return strings.ToLower(c.LogFormat)
	}
	if c.IsProduction() {
		return "json"
	}
	return "text"
}
