package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("API_FOOTBALL_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://v3.football.api-sports.io", cfg.APIFootballBaseURL)
	assert.Equal(t, "v3.football.api-sports.io", cfg.APIFootballHost)
	assert.Equal(t, 30*time.Second, cfg.APIFootballTimeout)
	assert.Equal(t, "0 3 * * *", cfg.FixtureSyncCron)
	assert.Equal(t, "*/15 * * * *", cfg.ScoreRefreshCron)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.NoError(t, cfg.RequireProvider())
}

func TestLoad_MissingDatabasePassword(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_PASSWORD")
}

func TestRequireProvider(t *testing.T) {
	cfg := &Config{APIFootballBaseURL: "https://example.test"}
	assert.Error(t, cfg.RequireProvider(), "missing key should fail")

	cfg.APIFootballKey = "key"
	assert.NoError(t, cfg.RequireProvider())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DatabaseHost:     "db",
		DatabasePort:     5433,
		DatabaseUser:     "u",
		DatabasePassword: "p",
		DatabaseName:     "partidos",
		DatabaseSSLMode:  "require",
	}
	assert.Equal(t, "postgres://u:p@db:5433/partidos?sslmode=require", cfg.DatabaseDSN())

	cfg.DatabaseURL = "postgres://hosted/db"
	assert.Equal(t, "postgres://hosted/db", cfg.DatabaseDSN(), "DATABASE_URL should win")
	assert.NoError(t, (&Config{DatabaseURL: "postgres://hosted/db"}).Validate())
}
