package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func throttleClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestLoginThrottle_BlocksAfterMaxAttempts(t *testing.T) {
	client, _ := throttleClient(t)
	throttle := NewLoginThrottle(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := throttle.Blocked(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, blocked, "attempt %d should not be blocked", i)
		require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	}

	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestLoginThrottle_NormalizesUsername(t *testing.T) {
	client, _ := throttleClient(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "  ALICE "))

	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestLoginThrottle_ResetClearsCounter(t *testing.T) {
	client, _ := throttleClient(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "bob"))
	blocked, err := throttle.Blocked(ctx, "bob")
	require.NoError(t, err)
	require.True(t, blocked)

	require.NoError(t, throttle.Reset(ctx, "bob"))
	blocked, err = throttle.Blocked(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	client, mr := throttleClient(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "carol"))
	blocked, err := throttle.Blocked(ctx, "carol")
	require.NoError(t, err)
	require.True(t, blocked)

	mr.FastForward(2 * time.Minute)

	blocked, err = throttle.Blocked(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, blocked)
}
