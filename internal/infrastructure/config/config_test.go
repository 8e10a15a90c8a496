package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Server.Mode)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 16, cfg.Ticket.CodeMaxAttempts)
	assert.Equal(t, 256, cfg.Ticket.QRSize)
	assert.Equal(t, "medium", cfg.Ticket.QRRecoveryLevel)
	assert.Zero(t, cfg.Ticket.EventCacheTTL)
	assert.Equal(t, []string{"email"}, cfg.Notification.Channels)
	assert.Equal(t, "ticket.transferred", cfg.AMQP.Queue)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: /tmp/tickets.db
notification:
  channels: [email, redis, amqp]
ticket:
  qr_size: 512
  qr_recovery_level: high
  event_cache_ttl: 10m
`)
	t.Setenv("TICKETD_TICKET_CODE_MAX_ATTEMPTS", "4")

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Mode)
	assert.True(t, cfg.Database.IsSQLite())
	assert.Equal(t, "/tmp/tickets.db", cfg.Database.Path)
	assert.Equal(t, 512, cfg.Ticket.QRSize)
	assert.Equal(t, "high", cfg.Ticket.QRRecoveryLevel)
	assert.Equal(t, 10*time.Minute, cfg.Ticket.EventCacheTTL)
	assert.Equal(t, 4, cfg.Ticket.CodeMaxAttempts)
	assert.True(t, cfg.Notification.Enabled("redis"))
	assert.True(t, cfg.Notification.Enabled("AMQP"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero attempts", body: "ticket:\n  code_max_attempts: 0\n"},
		{name: "negative qr size", body: "ticket:\n  qr_size: -1\n"},
		{name: "unknown driver", body: "database:\n  driver: postgres\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
