package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("WEBHOOK_URL", "http://localhost/hook")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.ServerPort)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "http://localhost/hook", cfg.WebhookURL)
	assert.Equal(t, 1024, cfg.EventBuffer)
	assert.Equal(t, "mpmatch:events", cfg.RedisChannel)
}

func TestLoad_RejectsBadInterval(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "-1s")

	_, err := Load(zerolog.Nop())
	assert.Error(t, err)
}
