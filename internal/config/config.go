package config

import (
	"time"

	"github.com/skytrade/auction-data/internal/kvstore"
)

// Config is the root configuration for the auction viewer.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Icons   IconsConfig   `yaml:"icons"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// APIConfig holds upstream API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Key        string        `yaml:"key"` // API key for the player endpoints
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Backend  string                 `yaml:"backend"` // memory, redis, or postgres
	Redis    kvstore.RedisConfig    `yaml:"redis"`
	Postgres kvstore.PostgresConfig `yaml:"postgres"`
}

// IconsConfig holds icon resolution settings.
type IconsConfig struct {
	BasePath         string `yaml:"base_path"`
	RemoteURL        string `yaml:"remote_url"`
	TextureIndexPath string `yaml:"texture_index_path"` // optional JSON index file
}

// RefreshConfig holds the buyer-name prefetch throttle.
type RefreshConfig struct {
	PrefetchLimit int           `yaml:"prefetch_limit"`
	PrefetchDelay time.Duration `yaml:"prefetch_delay"`
}
