package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/preload/backend/internal/infrastructure/config"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		direction      string
		steps          int
		force          int
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&direction, "direction", "up", "Migration direction (up, down)")
	flag.IntVar(&steps, "steps", 0, "Number of migrations to apply; 0 applies all")
	flag.IntVar(&force, "force", -1, "Force the schema version without running migrations")
	flag.StringVar(&migrationsPath, "path", "", "Path to the migrations directory (default from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	if err := run(log, direction, steps, force, migrationsPath); err != nil {
		log.Error("Migration failed", zap.Error(err))
		logger.Sync(log)
		os.Exit(1)
	}
}

func run(log *zap.Logger, direction string, steps, force int, migrationsPath string) error {
	dir, err := migration.ParseDirection(direction)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if migrationsPath == "" {
		migrationsPath = cfg.Database.MigrationsPath
	}
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, absPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	log.Info("Running migrations",
		zap.String("path", absPath),
		zap.String("direction", string(dir)),
		zap.Int("steps", steps))

	if force >= 0 {
		return m.Force(force)
	}
	return m.Run(dir, steps)
}
