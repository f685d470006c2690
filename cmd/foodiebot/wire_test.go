package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/foodie-bot/internal/models"
	"github.com/xaenox/foodie-bot/internal/storage/storagetest"
	"github.com/xaenox/foodie-bot/pkg/config"
	"go.uber.org/zap"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{"products": storagetest.Catalog()})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestOpenStorage(t *testing.T) {
	logger := zap.NewNop()

	t.Run("memory with catalog file", func(t *testing.T) {
		store, err := openStorage(config.DatabaseConfig{Driver: "memory", CatalogFile: writeCatalog(t)}, logger)
		require.NoError(t, err)
		defer store.Close()

		count, err := store.CountProducts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 18, count)
	})

	t.Run("memory without catalog file", func(t *testing.T) {
		store, err := openStorage(config.DatabaseConfig{Driver: "memory"}, logger)
		require.NoError(t, err)
		defer store.Close()

		count, err := store.CountProducts(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "foodiebot.db")
		store, err := openStorage(config.DatabaseConfig{Driver: "sqlite", SQLitePath: path}, logger)
		require.NoError(t, err)
		defer store.Close()

		count, err := store.CountProducts(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := openStorage(config.DatabaseConfig{Driver: "mongo"}, logger)
		assert.ErrorIs(t, err, models.ErrUnknownDriver)
	})

	t.Run("missing catalog file", func(t *testing.T) {
		_, err := openStorage(config.DatabaseConfig{
			Driver:      "memory",
			CatalogFile: filepath.Join(t.TempDir(), "missing.json"),
		}, logger)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = newLogger(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = newLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestAskCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  driver: memory\n  catalog_file: " + writeCatalog(t) + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"ask", "--config", configPath, "show", "me", "burgers"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Classic Smash Burger")
	assert.Contains(t, out.String(), "interest score: 15")
}
