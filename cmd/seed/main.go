package main

import (
	"context"
	"log"
	"log/slog"

	gormlogger "gorm.io/gorm/logger"

	"github.com/you/authsvc/internal/app"
	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/infrastructure/database"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/logging"
)

// Inserts the demo accounts into DATABASE_URL. Redis and the session
// secrets are not needed.
func main() {
	cfg, err := config.LoadSeeder()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := app.NewLogger(cfg)
	ctx := logging.WithContext(context.Background(), logger)

	db, err := database.Open(cfg.DatabaseURL, gormlogger.Warn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	passwordSvc, err := auth.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("password service: %v", err)
	}

	created, err := app.SeedDemoUsers(ctx, repositories.NewUserRepository(db), passwordSvc)
	if err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		log.Fatalf("seed: %v", err)
	}

	for _, demo := range app.DemoUsers {
		logger.Info("demo account", slog.String("email", demo.Email))
	}
	logger.Info("seed completed", slog.Int("created", created))
}
