package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/you/authsvc/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IsPostgres reports whether a DATABASE_URL points at Postgres
func IsPostgres(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

// NewLogger routes GORM output through slog. Lookups that find nothing are
// an expected outcome here and are not logged.
func NewLogger(log *slog.Logger, logLevel logger.LogLevel) logger.Interface {
	level := slog.LevelWarn
	switch logLevel {
	case logger.Info:
		level = slog.LevelInfo
	case logger.Error:
		level = slog.LevelError
	}

	return logger.New(slog.NewLogLogger(log.With(slog.String("component", "gorm")).Handler(), level), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Open connects to Postgres for postgres:// URLs and to SQLite otherwise.
// SQLite is limited to one open connection, which serializes writers.
func Open(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         NewLogger(slog.Default(), logLevel),
		TranslateError: true,
	}

	if IsPostgres(databaseURL) {
		return gorm.Open(postgres.Open(databaseURL), config)
	}

	db, err := gorm.Open(sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), config)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate creates or updates the users table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
