package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient(&Config{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestNewClient_Success(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_ConnectionRefused(t *testing.T) {
	_, err := NewClient(&Config{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  1,
	}, logging.NewNopLogger())

	assert.Equal(t, ErrConnectionFailed, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Addr: "localhost:6379"}
	applyDefaults(cfg)

	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 2, cfg.MinIdleConns)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestClient_SetGetRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute).Err())

	val, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	ttl, err := client.TTL(ctx, "k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestClient_DelAndExists(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())

	n, err := client.Exists(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, client.Del(ctx, "k").Err())

	n, err = client.Exists(ctx, "k").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClient_CommandsAfterClose(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Close())
	ctx := context.Background()

	assert.Equal(t, ErrClientClosed, client.Ping(ctx))
	assert.Equal(t, ErrClientClosed, client.Get(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Set(ctx, "k", "v", 0).Err())
	assert.Equal(t, ErrClientClosed, client.Del(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Exists(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.TTL(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Scan(ctx, 0, "*", 10).Err())
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}

func TestClient_GetUnderlyingClient(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NotNil(t, client.GetUnderlyingClient())
}
