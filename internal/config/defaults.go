package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL       = "https://api.hypixel.net"
	DefaultAPITimeout    = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultStoreBackend  = "memory"
	DefaultIconBasePath  = "images"
	DefaultIconRemoteURL = "https://sky.shiiyu.moe/item"
	DefaultPrefetchLimit = 2
	DefaultPrefetchDelay = 500 * time.Millisecond
	DefaultRedisAddr     = "localhost:6379"
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 4
)

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = DefaultRedisAddr
	}
	if c.Store.Postgres.Port == 0 {
		c.Store.Postgres.Port = DefaultDBPort
	}
	if c.Store.Postgres.SSLMode == "" {
		c.Store.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Store.Postgres.MaxConns == 0 {
		c.Store.Postgres.MaxConns = DefaultMaxConns
	}

	if c.Icons.BasePath == "" {
		c.Icons.BasePath = DefaultIconBasePath
	}
	if c.Icons.RemoteURL == "" {
		c.Icons.RemoteURL = DefaultIconRemoteURL
	}

	if c.Refresh.PrefetchLimit == 0 {
		c.Refresh.PrefetchLimit = DefaultPrefetchLimit
	}
	if c.Refresh.PrefetchDelay == 0 {
		c.Refresh.PrefetchDelay = DefaultPrefetchDelay
	}
}
