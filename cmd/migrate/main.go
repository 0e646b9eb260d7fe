package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/facefind/internal/config"
	"github.com/saturnino-fabrica-de-software/facefind/internal/database"
)

// migrateConfig is the subset of the gateway configuration the migrator needs
type migrateConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	action := flag.String("action", "up", "Migration action: up, down, steps, version, force")
	steps := flag.Int("steps", 0, "Number of steps (steps action, negative rolls back) or target version (force action)")
	flag.Parse()

	var cfg migrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)

	// golang-migrate needs database/sql
	poolCfg := database.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxOpenConns = 1
	poolCfg.MaxIdleConns = 1

	db, err := database.NewPool(poolCfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	dbName := database.DatabaseName(cfg.DatabaseURL)
	logger.Info("connected to database", slog.String("database", dbName))

	migrator, err := database.NewMigrator(db, dbName)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		logger.Info("running migrations")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}

	case "down":
		logger.Warn("rolling back last migration")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}

	case "steps":
		if *steps == 0 {
			return errors.New("steps flag is required for steps action")
		}
		logger.Info("migrating", slog.Int("steps", *steps))
		if err := migrator.Steps(*steps); err != nil {
			return fmt.Errorf("migration steps failed: %w", err)
		}

	case "version":

	case "force":
		if *steps == 0 {
			return errors.New("steps flag is required for force action")
		}
		logger.Warn("forcing migration version", slog.Int("version", *steps))
		if err := migrator.Force(*steps); err != nil {
			return fmt.Errorf("force migration failed: %w", err)
		}

	default:
		return fmt.Errorf("invalid action: %s (use: up, down, steps, version, force)", *action)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	if dirty {
		logger.Warn("schema is dirty, migration incomplete", slog.Uint64("version", uint64(version)))
		return nil
	}
	logger.Info("schema version", slog.Uint64("version", uint64(version)))
	return nil
}
