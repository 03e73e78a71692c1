package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"LISTFORGE_APP_NAME":                os.Getenv("LISTFORGE_APP_NAME"),
		"LISTFORGE_APP_ENV":                 os.Getenv("LISTFORGE_APP_ENV"),
		"LISTFORGE_APP_PORT":                os.Getenv("LISTFORGE_APP_PORT"),
		"LISTFORGE_DATABASE_HOST":           os.Getenv("LISTFORGE_DATABASE_HOST"),
		"LISTFORGE_DATABASE_PORT":           os.Getenv("LISTFORGE_DATABASE_PORT"),
		"LISTFORGE_DATABASE_USER":           os.Getenv("LISTFORGE_DATABASE_USER"),
		"LISTFORGE_DATABASE_PASSWORD":       os.Getenv("LISTFORGE_DATABASE_PASSWORD"),
		"LISTFORGE_DATABASE_DBNAME":         os.Getenv("LISTFORGE_DATABASE_DBNAME"),
		"LISTFORGE_DATABASE_SSLMODE":        os.Getenv("LISTFORGE_DATABASE_SSLMODE"),
		"LISTFORGE_DATABASE_MAX_OPEN_CONNS": os.Getenv("LISTFORGE_DATABASE_MAX_OPEN_CONNS"),
		"LISTFORGE_DATABASE_MAX_IDLE_CONNS": os.Getenv("LISTFORGE_DATABASE_MAX_IDLE_CONNS"),
		"LISTFORGE_PROVIDERS_TIMEOUT":       os.Getenv("LISTFORGE_PROVIDERS_TIMEOUT"),
		"LISTFORGE_INGEST_KEY":              os.Getenv("LISTFORGE_INGEST_KEY"),
		"LISTFORGE_GENERATION_API_KEY":      os.Getenv("LISTFORGE_GENERATION_API_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "listforge-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "listforge", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 60*time.Second, cfg.Providers.Timeout)
		assert.Equal(t, "https://api.rainforestapi.com", cfg.Providers.RainforestBaseURL)
		assert.Equal(t, 120*time.Second, cfg.Generation.Timeout)
	})

	t.Run("loads values from environment variables with LISTFORGE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("LISTFORGE_APP_NAME", "test-app")
		os.Setenv("LISTFORGE_APP_PORT", "9000")
		os.Setenv("LISTFORGE_DATABASE_HOST", "testdb.local")
		os.Setenv("LISTFORGE_DATABASE_PORT", "5433")
		os.Setenv("LISTFORGE_PROVIDERS_TIMEOUT", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 30*time.Second, cfg.Providers.Timeout)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("LISTFORGE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("LISTFORGE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("LISTFORGE_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"LISTFORGE_APP_ENV":            os.Getenv("LISTFORGE_APP_ENV"),
		"LISTFORGE_DATABASE_PASSWORD":  os.Getenv("LISTFORGE_DATABASE_PASSWORD"),
		"LISTFORGE_DATABASE_SSLMODE":   os.Getenv("LISTFORGE_DATABASE_SSLMODE"),
		"LISTFORGE_INGEST_KEY":         os.Getenv("LISTFORGE_INGEST_KEY"),
		"LISTFORGE_GENERATION_API_KEY": os.Getenv("LISTFORGE_GENERATION_API_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("LISTFORGE_APP_ENV", "production")
		os.Setenv("LISTFORGE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("LISTFORGE_DATABASE_SSLMODE", "require")
		os.Setenv("LISTFORGE_INGEST_KEY", "this-is-a-very-secure-ingest-key-32chars")
		os.Setenv("LISTFORGE_GENERATION_API_KEY", "sk-test-key")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("LISTFORGE_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("LISTFORGE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires ingest.key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("LISTFORGE_INGEST_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ingest.key is required in production")
	})

	t.Run("requires ingest.key at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("LISTFORGE_INGEST_KEY", "short-key")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ingest.key must be at least 32 characters")
	})

	t.Run("requires generation.api_key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("LISTFORGE_GENERATION_API_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generation.api_key is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
