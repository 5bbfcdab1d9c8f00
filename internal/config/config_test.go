package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"yamdb/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "mail_queue", cfg.MailQueue)
	assert.Zero(t, cfg.CodeTTL)
	assert.False(t, cfg.CodeSingleUse)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("CODE_TTL", "15m")
	t.Setenv("CODE_SINGLE_USE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 15*time.Minute, cfg.CodeTTL)
	assert.True(t, cfg.CodeSingleUse)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yamdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET: from-file\nAPP_PORT: \":9000\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", ":9100")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, ":9100", cfg.AppPort)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	cfg := config.Config{JWTSecret: "s", DBDriver: "mysql", TokenTTL: time.Hour, PageSize: 1}
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")

	cfg.DBDriver = "sqlite"
	cfg.AdminUsername = "root"
	assert.ErrorContains(t, cfg.Validate(), "ADMIN_EMAIL")

	cfg.AdminEmail = "root@example.com"
	assert.NoError(t, cfg.Validate())
}
