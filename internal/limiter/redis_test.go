package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) *RedisLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, limit, window)
}

func TestRedisLimiter_AllowsUpToLimitThenDenies(t *testing.T) {
	lim := newTestLimiter(t, 3, time.Hour)
	start := time.Now()

	for i := 1; i <= 3; i++ {
		res, err := lim.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should pass", i)
		assert.Equal(t, 3-i, res.Remaining)
	}

	res, err := lim.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	// The window frees up when the oldest counted request ages out.
	assert.WithinDuration(t, start.Add(time.Hour), res.Reset, 2*time.Second)
	assert.Greater(t, time.Until(res.Reset), 59*time.Minute)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	lim := newTestLimiter(t, 1, time.Hour)

	res, err := lim.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = lim.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = lim.Allow(context.Background(), "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_WindowSlides(t *testing.T) {
	lim := newTestLimiter(t, 1, 100*time.Millisecond)

	res, err := lim.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = lim.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	time.Sleep(150 * time.Millisecond)

	res, err = lim.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_ServerUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	lim := NewRedisLimiter(client, 3, time.Hour)
	mr.Close()

	_, err := lim.Allow(context.Background(), "1.2.3.4")
	assert.Error(t, err)
}

func TestDecodeWindowReply(t *testing.T) {
	allowed, count, oldest, err := decodeWindowReply([]interface{}{int64(1), int64(2), int64(1700000000000)})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(1700000000000), oldest)

	for name, raw := range map[string]interface{}{
		"not a slice":  "oops",
		"short slice":  []interface{}{int64(1)},
		"wrong types":  []interface{}{"1", "2", "3"},
		"mixed types":  []interface{}{int64(1), "2", int64(3)},
		"nil elements": []interface{}{nil, nil, nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := decodeWindowReply(raw)
			assert.Error(t, err)
		})
	}
}
