package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// DemoUser is an account created by SeedDemoUsers
type DemoUser struct {
	Name     string
	Email    string
	Password string
}

// DemoUsers are the accounts available in a seeded development database
var DemoUsers = []DemoUser{
	{Name: "John Doe", Email: "john@example.com", Password: "password123"},
	{Name: "Jane Smith", Email: "jane@example.com", Password: "password456"},
}

// SeedDemoUsers inserts the demo accounts that do not exist yet and returns
// how many were created. Passwords are stored hashed.
func SeedDemoUsers(ctx context.Context, userRepo domain.UserRepository, passwordSvc domain.PasswordService) (int, error) {
	logger := logging.FromContext(ctx)
	created := 0

	for _, demo := range DemoUsers {
		_, err := userRepo.FindByEmail(ctx, demo.Email)
		if err == nil {
			logger.Debug("demo user already present", slog.String("email", demo.Email))
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return created, fmt.Errorf("look up %s: %w", demo.Email, err)
		}

		hash, err := passwordSvc.Hash(demo.Password)
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", demo.Email, err)
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		user := &domain.User{
			Name:         demo.Name,
			Email:        demo.Email,
			PasswordHash: hash,
			LastLogin:    now,
			CreatedAt:    now,
			UpdatedAt:    now,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicateAccount) {
				continue
			}
			return created, fmt.Errorf("create %s: %w", demo.Email, err)
		}
		created++
	}

	logger.Info("demo users seeded", slog.Int("created", created))
	return created, nil
}
