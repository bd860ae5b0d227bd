package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return errors.New("api.key is required")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required")
		}
	case "postgres":
		pg := c.Store.Postgres
		if pg.Host == "" {
			return errors.New("store.postgres.host is required")
		}
		if pg.Name == "" {
			return errors.New("store.postgres.name is required")
		}
		if pg.User == "" {
			return errors.New("store.postgres.user is required")
		}
	default:
		return fmt.Errorf("store.backend must be memory, redis, or postgres, got %q", c.Store.Backend)
	}

	if c.Refresh.PrefetchLimit < 0 {
		return errors.New("refresh.prefetch_limit must be >= 0")
	}
	if c.Refresh.PrefetchDelay < 0 {
		return errors.New("refresh.prefetch_delay must be >= 0")
	}

	return nil
}
