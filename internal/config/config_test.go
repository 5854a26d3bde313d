package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Notification.Workers)
	assert.Equal(t, 1000, cfg.Notification.ChannelBufferSize)
	assert.Equal(t, 60, cfg.Notification.ScheduledCheckInterval)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "fitconnect_test")
	t.Setenv("NOTIF_WORKERS", "2")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "fitconnect_test", cfg.Database.DatabaseName)
	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.False(t, cfg.Redis.Enabled)
}

func TestDSNContainsDatabase(t *testing.T) {
	cfg := Load()
	assert.Contains(t, cfg.DSN(), cfg.Database.DatabaseName)
	assert.Contains(t, cfg.DSN(), "parseTime=True")
}

func TestAddrJoinsHostAndPort(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8081")
	cfg := Load()
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
}
