// Package cache provides the Redis connection used to share the admin session token.
package cache

import (
	"fmt"
	"os"
	"time"

	"campo-listings/pkg/config"
)

// RedisConfig holds the settings for connecting to a Redis instance.
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	TLSEnabled  bool
	TLSCertFile string
	DialTimeout time.Duration
}

// ConfigFrom extracts the Redis settings from the application config.
func ConfigFrom(cfg *config.Config) *RedisConfig {
	return &RedisConfig{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		TLSEnabled:  cfg.Redis.TLSEnabled,
		TLSCertFile: cfg.Redis.TLSCertFile,
		DialTimeout: 2 * time.Second,
	}
}

// Validate performs basic sanity checks.
func (c *RedisConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("REDIS_PORT must be between 1 and 65535")
	}
	if c.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.TLSEnabled && c.TLSCertFile != "" {
		if _, err := os.Stat(c.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", c.TLSCertFile)
		}
	}
	return nil
}
