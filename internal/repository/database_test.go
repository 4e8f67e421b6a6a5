//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for database operations
// Run with: go test -v -tags=integration ./internal/repository/...

func testConfig() Config {
	return Config{
		URL:      os.Getenv("TEST_DATABASE_URL"),
		Host:     "localhost",
		Port:     "5432",
		Database: "partidos_test",
		User:     "partidos",
		Password: "partidos",
		SSLMode:  "disable",
	}
}

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()
	cfg := testConfig()

	mg, err := NewMigrator(cfg.DSN())
	require.NoError(t, err, "Failed to open migrator")
	require.NoError(t, mg.Up(), "Failed to apply migrations")
	mg.Close()

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	_, err = db.Pool.Exec(ctx, `TRUNCATE matches, player_ratings`)
	require.NoError(t, err)

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.Equal(t, int32(4), stats["max_conns"].(int32))
}

func TestDatabasePing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.Pool.Ping(ctx)
	assert.NoError(t, err, "Should successfully ping database")
}

func TestMigrator_Version(t *testing.T) {
	mg, err := NewMigrator(testConfig().DSN())
	require.NoError(t, err)
	defer mg.Close()

	require.NoError(t, mg.Up())
	// a second run has nothing to do
	require.NoError(t, mg.Up())

	version, dirty, ok, err := mg.Version()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)
}
