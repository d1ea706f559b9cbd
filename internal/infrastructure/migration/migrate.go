// Package migration applies the SQL schema migrations in migrations/.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Direction selects which way Run moves the schema
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a direction flag value
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown migration direction %q (want up or down)", s)
	}
}

// Migrator wraps golang-migrate with logging
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator on an open PostgreSQL connection
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

// Run moves the schema in the given direction. steps <= 0 applies every
// pending migration (up) or rolls all of them back (down).
func (m *Migrator) Run(direction Direction, steps int) error {
	var err error
	switch {
	case steps > 0 && direction == DirectionDown:
		err = m.migrate.Steps(-steps)
	case steps > 0:
		err = m.migrate.Steps(steps)
	case direction == DirectionDown:
		err = m.migrate.Down()
	default:
		err = m.migrate.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply", zap.String("direction", string(direction)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migrations completed",
		zap.String("direction", string(direction)),
		zap.Int("steps", steps),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	return m.Run(DirectionUp, 0)
}

// Version returns the current schema version; 0 when nothing was applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the version without running migrations, clearing a dirty state
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
