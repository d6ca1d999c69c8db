package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, game.DefaultRules(), cfg.Game.Rules())
	assert.Equal(t, time.Second, cfg.Game.OpponentDelay)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
game:
  goal: 30
  contract_ends_turn: false
  opponent_delay: 250ms
  account: alice
storage:
  driver: sqlite
  path: /tmp/records.db
web:
  allowed_origins: ["localhost:3000"]
`)
	t.Setenv("FORESTCLASH_GAME_OPENING_HAND", "3")
	t.Setenv("FORESTCLASH_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	rules := cfg.Game.Rules()
	assert.Equal(t, 30, rules.Goal)
	assert.Equal(t, 3, rules.OpeningHand)
	assert.False(t, rules.ContractEndsTurn)
	assert.True(t, rules.ChainTurnPreserving)
	assert.Equal(t, 250*time.Millisecond, cfg.Game.OpponentDelay)
	assert.Equal(t, "alice", cfg.Game.Account)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, []string{"localhost:3000"}, cfg.Web.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"bad goal":        "game:\n  goal: -1\n",
		"big hand":        "game:\n  opening_hand: 9\n",
		"bad driver":      "storage:\n  driver: mongo\n",
		"postgres no dsn": "storage:\n  driver: postgres\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestCatalog(t *testing.T) {
	c, err := GameConfig{}.Catalog()
	require.NoError(t, err)
	assert.Len(t, c.Templates(), 9)

	path := writeFile(t, "catalog.yaml", "cards:\n  - {id: oak, type: tree, value: 1}\n")
	c, err = GameConfig{CatalogFile: path}.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "oak", c.MinTree().ID)

	_, err = GameConfig{CatalogFile: filepath.Join(t.TempDir(), "nope.yaml")}.Catalog()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(LoggingConfig{Level: "warn", Format: format})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(-1))
		assert.True(t, logger.Core().Enabled(1))
	}
}

func TestOpenRecorder(t *testing.T) {
	ctx := context.Background()

	r, closeFn, err := OpenRecorder(ctx, StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &record.MemoryRecorder{}, r)
	closeFn()

	r, closeFn, err = OpenRecorder(ctx, StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	defer closeFn()
	_, err = r.Stats(ctx, "nobody")
	assert.ErrorIs(t, err, record.ErrNotFound)

	_, _, err = OpenRecorder(ctx, StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}
