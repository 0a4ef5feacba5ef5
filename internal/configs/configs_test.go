package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 5555, cfg.GamePort)
	assert.Equal(t, 5556, cfg.ChatPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 10, cfg.MaxPlayersPerRoom)
	assert.Equal(t, 3*time.Second, cfg.RoundDelay)
	assert.Equal(t, "Main Room", cfg.DefaultRoomName)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GAME_PORT", "6000")
	t.Setenv("CHAT_PORT", "6001")
	t.Setenv("MAX_PLAYERS_PER_ROOM", "4")
	t.Setenv("ROUND_DELAY_SECONDS", "0")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 6000, cfg.GamePort)
	assert.Equal(t, 6001, cfg.ChatPort)
	assert.Equal(t, 4, cfg.MaxPlayersPerRoom)
	assert.Equal(t, time.Duration(0), cfg.RoundDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("non-numeric port", func(t *testing.T) {
		t.Setenv("GAME_PORT", "abc")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("privileged port", func(t *testing.T) {
		t.Setenv("GAME_PORT", "80")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("equal game and chat ports", func(t *testing.T) {
		t.Setenv("GAME_PORT", "6000")
		t.Setenv("CHAT_PORT", "6000")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("zero room capacity", func(t *testing.T) {
		t.Setenv("MAX_PLAYERS_PER_ROOM", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("negative round delay", func(t *testing.T) {
		t.Setenv("ROUND_DELAY_SECONDS", "-1")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
