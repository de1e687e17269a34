package cache

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"campo-listings/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient builds a client from cfg. It does not ping: the session
// store must keep working, logged out, when Redis is down.
func NewRedisClient(cfg *RedisConfig) (*redis.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Redis config: %v", err)
	}

	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.TLSCertFile != "" {
			pem, err := os.ReadFile(cfg.TLSCertFile)
			if err != nil {
				logger.GlobalLogger.Errorf("failed to read TLS certificate: file=%s, error=%v", cfg.TLSCertFile, err)
				return nil, fmt.Errorf("failed to read TLS certificate: %v", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("no certificates found in %s", cfg.TLSCertFile)
			}
			tlsConfig.RootCAs = pool
		}
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     4,
		TLSConfig:    tlsConfig,
		DialTimeout:  dialTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   -1,
	}), nil
}
