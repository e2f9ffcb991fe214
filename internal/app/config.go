package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"accord/internal/services/migration"
	"accord/internal/store"
)

// StoreRemote selects the accordd server as the profile and message store.
const StoreRemote = "remote"

// EnvAdminToken overrides Config.AdminToken when set.
const EnvAdminToken = "ACCORD_ADMIN_TOKEN"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home                 string `yaml:"home"`       // data directory, e.g. $HOME/.accord
	Store                string `yaml:"store"`      // file, sqlite or remote
	SQLitePath           string `yaml:"sqlitePath"` // defaults to <home>/accord.db
	QueuePath            string `yaml:"queuePath"`  // defaults to <home>/notifications.db
	ServerAddr           string `yaml:"serverAddr"` // accordd listen address
	ServerURL            string `yaml:"serverUrl"`  // accordd base URL for the remote store
	AdminToken           string `yaml:"adminToken"`
	LogLevel             string `yaml:"logLevel"`
	MigrationConcurrency int    `yaml:"migrationConcurrency"`

	HTTP *http.Client `yaml:"-"` // optional; defaults to http.DefaultClient
}

// DefaultConfig returns the settings used when no file or flag says otherwise.
func DefaultConfig() Config {
	home := ".accord"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".accord")
	}
	return Config{
		Home:                 home,
		Store:                store.KindFile,
		ServerAddr:           ":8080",
		ServerURL:            "http://127.0.0.1:8080",
		LogLevel:             "info",
		MigrationConcurrency: migration.DefaultConcurrency,
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig. An empty path
// returns the defaults. The admin token may also come from the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if tok := os.Getenv(EnvAdminToken); tok != "" {
		cfg.AdminToken = tok
	}
	return cfg, cfg.Validate()
}

// Validate checks that the settings can be wired.
func (c Config) Validate() error {
	switch c.Store {
	case store.KindFile, store.KindSQLite:
	case StoreRemote:
		if c.ServerURL == "" {
			return fmt.Errorf("store %q needs serverUrl", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q (want file, sqlite or remote)", c.Store)
	}
	if c.Home == "" {
		return fmt.Errorf("home directory is empty")
	}
	if c.MigrationConcurrency < 0 {
		return fmt.Errorf("migrationConcurrency must not be negative")
	}
	return nil
}

func (c Config) queuePath() string {
	if c.QueuePath != "" {
		return c.QueuePath
	}
	return filepath.Join(c.Home, "notifications.db")
}
