// seed creates or refreshes the single admin account from the ADMIN_* environment
// variables. Run once after migrations; re-running updates the credentials.
package main

import (
	"context"
	"log/slog"
	"os"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"
	"DreamEventsAPI/internal/repository"

	"github.com/google/uuid"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadAppConfig()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := helper.HashPassword(cfg.AdminPassword)
	if err != nil {
		slog.Error("Failed to hash admin password", "error", err)
		os.Exit(1)
	}

	admin := &model.User{
		ID:           uuid.New(),
		Email:        helper.NormalizeEmail(cfg.AdminEmail),
		Phone:        helper.NormalizePhone(cfg.AdminPhone),
		FullName:     "Administrator",
		PasswordHash: hash,
		IsAdmin:      true,
	}

	userRepository := repository.NewUserRepository(db)
	if err := userRepository.Upsert(context.Background(), admin); err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	slog.Info("Admin account seeded", "email", admin.Email, "phone", admin.Phone)
}
