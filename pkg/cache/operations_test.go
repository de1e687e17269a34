package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	data   map[string]string
	ttl    map[string]time.Duration
	err    error
	closed bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = value.(string)
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	store := NewStore(fc)

	require.NoError(t, store.SetString(ctx, SessionTokenKey(), "tok", time.Hour))
	assert.Equal(t, time.Hour, fc.ttl[SessionTokenKey()])

	got, err := store.GetString(ctx, SessionTokenKey())
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, store.Delete(ctx, SessionTokenKey()))
	_, err = store.GetString(ctx, SessionTokenKey())
	assert.True(t, IsMiss(err))

	require.NoError(t, store.Delete(ctx, SessionTokenKey()), "deleting a missing key is fine")
	require.NoError(t, store.Close())
	assert.True(t, fc.closed)
}

func TestStoreWrapsBackendErrors(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	fc.err = &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	store := NewStore(fc)

	_, err := store.GetString(ctx, "k")
	var cerr *CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "get", cerr.Operation)
	assert.True(t, cerr.Retryable)
	assert.False(t, IsMiss(err))

	assert.ErrorAs(t, store.SetString(ctx, "k", "v", 0), &cerr)
	assert.Equal(t, "set", cerr.Operation)
	assert.ErrorAs(t, store.Delete(ctx, "k"), &cerr)
	assert.Equal(t, "delete", cerr.Operation)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "campo:session:token", SessionTokenKey())
	assert.Equal(t, "campo:session:token", ScopedSessionTokenKey(""))
	assert.Equal(t, "campo:session:staging:token", ScopedSessionTokenKey("staging"))
}

func TestRedisConfigValidate(t *testing.T) {
	assert.NoError(t, (&RedisConfig{Host: "localhost", Port: 6379}).Validate())
	assert.Error(t, (&RedisConfig{Port: 6379}).Validate())
	assert.Error(t, (&RedisConfig{Host: "h", Port: 0}).Validate())
	assert.Error(t, (&RedisConfig{Host: "h", Port: 6379, DB: -1}).Validate())
	assert.Error(t, (&RedisConfig{Host: "h", Port: 6379, TLSEnabled: true, TLSCertFile: "/nonexistent/ca.pem"}).Validate())

	_, err := NewRedisClient(&RedisConfig{Host: "", Port: 6379})
	assert.Error(t, err)

	client, err := NewRedisClient(&RedisConfig{Host: "127.0.0.1", Port: 6379})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", client.Options().Addr)
	_ = client.Close()
}
