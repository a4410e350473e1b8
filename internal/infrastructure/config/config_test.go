package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocalSqlite(t *testing.T) {
	t.Setenv("ENV_TYPE", "local")
	t.Setenv("LOCAL_DB_DRIVER", "sqlite")
	t.Setenv("LOCAL_DB_PATH", ":memory:")
	t.Setenv("CACHE_TTL_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":memory:", cfg.GetDSN())
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, "8080", cfg.ServerPort)
}

func TestLoadServerMySQL(t *testing.T) {
	t.Setenv("ENV_TYPE", "SERVER")
	t.Setenv("SERVER_DB_DRIVER", "mysql")
	t.Setenv("SERVER_DB_USER", "hoa")
	t.Setenv("SERVER_DB_PASSWORD", "secret")
	t.Setenv("SERVER_DB_HOST", "db")
	t.Setenv("SERVER_DB_PORT", "3307")
	t.Setenv("SERVER_DB_NAME", "condo")
	t.Setenv("SERVER_REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "hoa:secret@tcp(db:3307)/condo?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddr())
}

func TestLoadRejectsMissingMySQLUser(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("LOCAL_DB_DRIVER", "mysql")
	t.Setenv("LOCAL_DB_USER", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("LOCAL_DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}
