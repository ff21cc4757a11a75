package testutil

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
)

func newMigrator(t *testing.T, db *TestDB, migrationsPath string) (*migrate.Migrate, *sql.DB) {
	t.Helper()

	sqlDB, err := sql.Open("pgx", db.Pool.Config().ConnString())
	require.NoError(t, err, "failed to open migration connection")

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	require.NoError(t, err, "failed to create postgres driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "failed to create migrate instance")

	return m, sqlDB
}

// RunMigrations applies all migrations to the test database
func RunMigrations(t *testing.T, db *TestDB, migrationsPath string) {
	t.Helper()

	m, sqlDB := newMigrator(t, db, migrationsPath)
	t.Cleanup(func() {
		m.Close()
		sqlDB.Close()
	})

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err, "failed to run migrations")
	}
}

// MigrateDown rolls back all migrations
func MigrateDown(t *testing.T, db *TestDB, migrationsPath string) {
	t.Helper()

	m, sqlDB := newMigrator(t, db, migrationsPath)
	defer sqlDB.Close()
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err, "failed to rollback migrations")
	}
}
