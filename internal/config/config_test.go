package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("USERNAME", "")
	t.Setenv("CURRENT_SEASON", "")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "ranked-clicker.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Player", cfg.Username)
	assert.Equal(t, 1, cfg.CurrentSeason)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/game.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("USERNAME", "Clicker")
	t.Setenv("CURRENT_SEASON", "4")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/game.db", cfg.DBPath)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "Clicker", cfg.Username)
	assert.Equal(t, 4, cfg.CurrentSeason)
}

func TestLoadSanitizesSeason(t *testing.T) {
	t.Setenv("CURRENT_SEASON", "-3")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.CurrentSeason)
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("CURRENT_SEASON", "two")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.CurrentSeason)
}
