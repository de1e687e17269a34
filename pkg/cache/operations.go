package cache

import (
	"context"
	"time"

	"campo-listings/pkg/logger"
	"campo-listings/pkg/metrics"
)

// Store wraps a CacheClient with metrics and logging.
type Store struct {
	client CacheClient
}

func NewStore(client CacheClient) *Store {
	return &Store{client: client}
}

// GetString returns the raw value at key. A missing key yields redis.Nil (see IsMiss).
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := s.client.Get(ctx, key).Result()
	metrics.RedisOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err != nil {
		if IsMiss(err) {
			return "", err
		}
		metrics.RedisErrorsTotal.WithLabelValues("get").Inc()
		logger.GlobalLogger.Debugf("failed to get key %s: %v", key, err)
		return "", NewCacheError("get", key, err, true)
	}
	return val, nil
}

// SetString stores value at key. A zero expiration keeps it until deleted.
func (s *Store) SetString(ctx context.Context, key, value string, expiration time.Duration) error {
	start := time.Now()
	err := s.client.Set(ctx, key, value, expiration).Err()
	metrics.RedisOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set").Inc()
		logger.GlobalLogger.Debugf("failed to set key %s: %v", key, err)
		return NewCacheError("set", key, err, true)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.client.Del(ctx, key).Err()
	metrics.RedisOperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("delete").Inc()
		logger.GlobalLogger.Debugf("failed to delete key %s: %v", key, err)
		return NewCacheError("delete", key, err, true)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		logger.GlobalLogger.Errorf("error closing Redis: %v", err)
		return err
	}
	return nil
}
