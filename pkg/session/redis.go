package session

import (
	"context"
	"time"

	"campo-listings/pkg/cache"
	"campo-listings/pkg/logger"
)

// RedisStore shares the token through a single Redis key, e.g. between
// several workers acting for the same admin.
type RedisStore struct {
	store *cache.Store
	key   string
	ttl   time.Duration
}

// NewRedisStore uses key (cache.SessionTokenKey when empty). A positive ttl
// expires the token server-side.
func NewRedisStore(store *cache.Store, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = cache.SessionTokenKey()
	}
	return &RedisStore{store: store, key: key, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) string {
	token, err := s.store.GetString(ctx, s.key)
	if err != nil {
		if !cache.IsMiss(err) {
			logger.GlobalLogger.Debugf("redis token store unavailable, treating as logged out: %v", err)
		}
		return ""
	}
	return token
}

func (s *RedisStore) Set(ctx context.Context, token string) {
	if err := s.store.SetString(ctx, s.key, token, s.ttl); err != nil {
		logger.GlobalLogger.Debugf("redis token store: dropping write: %v", err)
	}
}

func (s *RedisStore) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, s.key); err != nil {
		logger.GlobalLogger.Debugf("redis token store: dropping clear: %v", err)
	}
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.store.Close()
}
