package config

import (
	"os"
	"path/filepath"
	"time"
)

// Database is the local SQLite store configuration.
type Database struct {
	// Path of the database file. Empty means ~/.mailblast/mailblast.db.
	Path string `yaml:"path"`

	// BusyTimeoutMs is how long a writer waits on a locked database.
	BusyTimeoutMs int `yaml:"busyTimeoutMs"`

	// Debug wraps the connection with query logging.
	Debug bool `yaml:"debug"`
}

// Mailer tunes the SMTP client and attachment budgets.
type Mailer struct {
	ConnectTimeoutSec int   `yaml:"connectTimeoutSec"`
	PerFileMaxBytes   int64 `yaml:"perFileMaxBytes"`
	TotalMaxBytes     int64 `yaml:"totalMaxBytes"`
}

// TestSend configures the shared test-send cooldown.
type TestSend struct {
	CooldownSec int `yaml:"cooldownSec"`
}

// Secrets configures at-rest encryption of sender authorization codes.
type Secrets struct {
	Passphrase string `yaml:"passphrase"`
	Salt       string `yaml:"salt"`
}

// Config contains application config
type Config struct {
	Database Database `yaml:"database"`
	Mailer   Mailer   `yaml:"mailer"`
	TestSend TestSend `yaml:"testSend"`
	Secrets  Secrets  `yaml:"secrets"`
}

// ApplyDefaults fills every unset field. It is safe to run on a zero Config,
// so the application works without any config file at all.
func (c *Config) ApplyDefaults() {
	if c.Database.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}

		c.Database.Path = filepath.Join(home, ".mailblast", "mailblast.db")
	}

	if c.Database.BusyTimeoutMs <= 0 {
		c.Database.BusyTimeoutMs = 20_000
	}

	if c.Mailer.ConnectTimeoutSec <= 0 {
		c.Mailer.ConnectTimeoutSec = 20
	}

	if c.TestSend.CooldownSec <= 0 {
		c.TestSend.CooldownSec = 60
	}

	if c.Secrets.Passphrase == "" {
		c.Secrets.Passphrase = "mailblast-local-store"
	}

	if c.Secrets.Salt == "" {
		c.Secrets.Salt = "mailblast"
	}
}

func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Mailer.ConnectTimeoutSec) * time.Second
}

func (c Config) Cooldown() time.Duration {
	return time.Duration(c.TestSend.CooldownSec) * time.Second
}
