package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "settlement-engine", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "settlement", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "DOP", cfg.Settlement.FunctionalCurrency)
	assert.Equal(t, 0.05, cfg.Settlement.RateTolerance)
	assert.Equal(t, 10*time.Minute, cfg.Settlement.RateCacheTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SETTLE_DATABASE_HOST", "db.internal")
	t.Setenv("SETTLE_SETTLEMENT_FUNCTIONAL_CURRENCY", "USD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "USD", cfg.Settlement.FunctionalCurrency)
}

func TestValidateProduction(t *testing.T) {
	t.Setenv("SETTLE_APP_ENV", "production")

	// production without secrets must fail fast
	_, err := Load()
	require.Error(t, err)
}

func TestValidateRateTolerance(t *testing.T) {
	t.Setenv("SETTLE_SETTLEMENT_RATE_TOLERANCE", "1.5")

	_, err := Load()
	require.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss:word",
		DBName:   "settlement",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss:word", "password must be escaped")
}
