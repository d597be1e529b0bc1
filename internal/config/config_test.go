package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Spreadsheet.Workers)
	assert.Zero(t, cfg.Spreadsheet.ReloadInterval)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "mentors", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 256, cfg.ImageCacheSize)
	assert.False(t, cfg.HistoryEnabled())
}

func TestParse_Values(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ENV", "Production")
	t.Setenv("ADMIN_TELEGRAM_IDS", "10,20")
	t.Setenv("DB_DSN", "postgres://localhost/mentors")
	t.Setenv("SPREADSHEET_PATH", "/data/mentores.xlsx")
	t.Setenv("SPREADSHEET_RELOAD_INTERVAL", "5m")
	t.Setenv("INGEST_WORKERS", "8")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, []int64{10, 20}, cfg.AdminIDs)
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
	assert.True(t, cfg.HistoryEnabled())
	assert.Equal(t, 5*time.Minute, cfg.Spreadsheet.ReloadInterval)
	assert.Equal(t, 8, cfg.Spreadsheet.Workers)
}

func TestParse_Validation(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("RABBITMQ_ENABLED", "true")
	t.Setenv("INGEST_WORKERS", "0")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
	assert.Contains(t, err.Error(), "RABBITMQ_URL")
	assert.Contains(t, err.Error(), "INGEST_WORKERS")
}

func TestParse_HTTPOnly(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("HTTP_ENABLED", "true")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.HTTP.Enabled)
}
