// Package integration runs the preload API against a real PostgreSQL started
// with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/preload/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// TestDB is a migrated preload schema in a throwaway container
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
}

// NewTestDB starts PostgreSQL, applies migrations/ and tears everything
// down when t finishes
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("preload_test"),
		tcpostgres.WithUsername("preload"),
		tcpostgres.WithPassword("preload"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	require.NoError(t, err, "connect to postgres")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrationsDir(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(), "apply migrations")

	return &TestDB{DB: db, SqlDB: sqlDB, DSN: dsn}
}

// migrationsDir finds migrations/ above this file
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	for dir := filepath.Dir(file); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		p := filepath.Join(dir, "migrations")
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	t.Fatal("migrations directory not found")
	return ""
}
