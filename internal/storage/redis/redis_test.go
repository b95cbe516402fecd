package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hizbtrack/internal/storage"
)

// setupTestRedis connects to REDIS_URL, skipping the test when it is unset.
func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	store, err := New(context.Background(), redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	key := "test-" + uuid.NewString()
	t.Cleanup(func() { store.client.Del(context.Background(), keyPrefix+key) })

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Put(ctx, key, []byte(`{"name":"a"}`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a"}`, string(got))

	require.NoError(t, store.Put(ctx, key, []byte(`{"name":"b"}`)))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"b"}`, string(got))
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewWithClient_Unreachable(t *testing.T) {
	// Nothing listens on port 1; the client only dials on first use.
	store := NewWithClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
	t.Cleanup(func() { store.Close() })

	_, err := store.Get(context.Background(), "doc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	assert.Error(t, store.Put(context.Background(), "doc", []byte(`{}`)))
}
