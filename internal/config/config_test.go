package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 環境変数をクリア
	envVars := []string{
		"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"HOLD_TTL", "HOLD_CLEANER_INTERVAL",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}

	cfg := Load()

	// Server defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// Database defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "flight_reservation", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	// Redis defaults
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)

	// Reservation defaults
	assert.Equal(t, 20*time.Minute, cfg.Reservation.HoldTTL)
	assert.Equal(t, 1*time.Minute, cfg.Reservation.CleanerInterval)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "booking_test")
	t.Setenv("HOLD_TTL", "5m")
	t.Setenv("HOLD_CLEANER_INTERVAL", "30s")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "booking_test", cfg.Database.DBName)
	assert.Equal(t, 5*time.Minute, cfg.Reservation.HoldTTL)
	assert.Equal(t, 30*time.Second, cfg.Reservation.CleanerInterval)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HOLD_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "abc")

	cfg := Load()

	assert.Equal(t, 20*time.Minute, cfg.Reservation.HoldTTL)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.example.com", Port: "5432",
		User: "app", Password: "secret",
		DBName: "flights", SSLMode: "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "dbname=flights")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: "6380"}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
