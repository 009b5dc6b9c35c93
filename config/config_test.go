package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbrhub/mailblast/config"
)

func TestApplyDefaults(t *testing.T) {
	var cfg config.Config
	cfg.ApplyDefaults()

	assert.Contains(t, cfg.Database.Path, "mailblast.db")
	assert.Equal(t, 20_000, cfg.Database.BusyTimeoutMs)
	assert.Equal(t, 20*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, time.Minute, cfg.Cooldown())
	assert.NotEmpty(t, cfg.Secrets.Passphrase)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := config.Config{
		Database: config.Database{Path: "/tmp/x.db", BusyTimeoutMs: 5},
		TestSend: config.TestSend{CooldownSec: 120},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Database.BusyTimeoutMs)
	assert.Equal(t, 2*time.Minute, cfg.Cooldown())
}

func TestSetup(t *testing.T) {
	t.Run("reads yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		body := []byte("database:\n  path: /tmp/custom.db\n  debug: true\ntestSend:\n  cooldownSec: 30\n")
		require.NoError(t, os.WriteFile(path, body, 0o600))

		var cfg config.Config
		log, err := config.Setup(path, &cfg)
		require.NoError(t, err)
		require.NotNil(t, log)

		assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
		assert.True(t, cfg.Database.Debug)
		assert.Equal(t, 30, cfg.TestSend.CooldownSec)
	})

	t.Run("empty file path is allowed", func(t *testing.T) {
		var cfg config.Config
		log, err := config.Setup("", &cfg)
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.Equal(t, config.Config{}, cfg)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		var cfg config.Config
		_, err := config.Setup("/no/such/config.yml", &cfg)
		assert.Error(t, err)
	})
}
