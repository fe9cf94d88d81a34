package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// InitDatabase opens the Postgres connection and, when DB_MIGRATE is set,
// applies the embedded migrations before returning.
func InitDatabase(cfg *AppConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DBConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.DBMigrate {
		if err := runMigrations(cfg); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	slog.Info("Connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	return db, nil
}

func runMigrations(cfg *AppConfig) error {
	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, cfg.DBConnectionString())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	slog.Info("Database migrations applied")
	return nil
}
