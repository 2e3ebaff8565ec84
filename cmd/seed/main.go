package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/RetroMaine/FintechProject/internal/adapter/storage"
	"github.com/RetroMaine/FintechProject/internal/core/config"
	"github.com/RetroMaine/FintechProject/internal/core/domain"
)

const (
	seedEmail    = "sample@admin.com"
	seedName     = "Sample User"
	seedPassword = "changeme123"
)

// Seeds a sample user and one prediction record so the app has data to show
// on first run. Safe to run repeatedly.
func main() {
	cfg := config.LoadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	ctx := context.Background()
	users := storage.NewUserRepository(dbPool)
	ledger := storage.NewLedgerRepository(dbPool)

	user, err := users.GetByEmail(ctx, seedEmail)
	switch {
	case err == nil:
		slog.Info("Existing user found", "userId", user.ID)
	case errors.Is(err, domain.ErrUserNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("Failed to hash password", "error", err)
			os.Exit(1)
		}
		user, err = users.Create(ctx, seedName, seedEmail, string(hash))
		if err != nil {
			slog.Error("Failed to create user", "error", err)
			os.Exit(1)
		}
		slog.Info("New user created", "userId", user.ID)
	default:
		slog.Error("Failed to look up user", "error", err)
		os.Exit(1)
	}

	record := domain.PredictionRecord{
		UserID: user.ID.String(),
		Features: domain.Features{
			Income:    55.882,
			Rating:    357,
			Cards:     2,
			Age:       68,
			Balance:   331,
			Education: 16,
			Student:   false,
			Married:   true,
			Ethnicity: "Caucasian",
		},
		CreditLimit:         4897.00,
		ApprovalProbability: 0.8421,
		CreatedAt:           time.Now().UTC(),
	}

	id, err := ledger.Record(ctx, record)
	if err != nil {
		slog.Error("Failed to seed prediction", "error", err)
		os.Exit(1)
	}

	slog.Info("Successfully seeded prediction", "recordId", id)
}
