// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/maintrack")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "Maintenance Tracker", c.App.Name)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 72*time.Hour, c.Invite.TTL)
	assert.Equal(t, "UTC", c.Schedule.Timezone)
	assert.True(t, c.Database.AutoMigrate)
	assert.Equal(t, "maintrack", c.Redis.KeyPrefix)
	assert.True(t, c.IsDevelopment())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SCHEDULE_TIMEZONE", "Europe/Berlin")
	t.Setenv("INVITE_TTL", "24h")
	t.Setenv("APP_URL", "https://maint.example.com/auth/callback")

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 24*time.Hour, c.Invite.TTL)
	assert.Equal(t, "https://maint.example.com/auth/callback", c.Invite.RedirectURL)

	loc, err := c.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("app:\n  environment: staging\nlog:\n  format: text\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", c.App.Environment)
	assert.Equal(t, "text", c.Log.Format)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCHEDULE_TIMEZONE", "Mars/Olympus_Mons")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", s.Address())
}
