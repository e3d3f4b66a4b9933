package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "contact_rate:"

// Per-call budget so a slow Redis never hangs the request handler.
const callTimeout = 5 * time.Second

// slidingWindowScript implements an atomic sliding-window check over a
// sorted set of request timestamps: drop entries older than the window,
// count what is left, add the new request only if it fits, and report the
// oldest surviving entry so the caller can compute the reset time.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
    redis.call('ZADD', key, now, member)
    allowed = 1
    count = count + 1
end
redis.call('PEXPIRE', key, window)

local oldest = now
local head = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if head[2] then
    oldest = tonumber(head[2])
end

return {allowed, count, oldest}
`

var slidingWindow = redis.NewScript(slidingWindowScript)

// RedisLimiter enforces a sliding-window quota backed by Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter returns a limiter allowing limit requests per window
// per key.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow runs the sliding-window script for key. Concurrent calls for the
// same key serialize inside Redis, so the quota holds under races.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	now := time.Now()
	raw, err := slidingWindow.Run(ctx, l.client, []string{keyPrefix + key},
		now.UnixMilli(), l.window.Milliseconds(), l.limit, uuid.NewString()).Result()
	if err != nil {
		return Result{}, fmt.Errorf("sliding window check for %q: %w", key, err)
	}

	allowed, count, oldest, err := decodeWindowReply(raw)
	if err != nil {
		return Result{}, err
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   allowed,
		Remaining: remaining,
		Reset:     time.UnixMilli(oldest).Add(l.window),
	}, nil
}

// decodeWindowReply unpacks the script's {allowed, count, oldest} reply
// without trusting its shape; a mangled reply surfaces as an error, not
// a panic in the request path.
func decodeWindowReply(raw interface{}) (allowed bool, count int, oldest int64, err error) {
	vals, ok := raw.([]interface{})
	if !ok || len(vals) != 3 {
		return false, 0, 0, fmt.Errorf("unexpected sliding window reply: %v", raw)
	}

	a, okA := vals[0].(int64)
	c, okC := vals[1].(int64)
	o, okO := vals[2].(int64)
	if !okA || !okC || !okO {
		return false, 0, 0, fmt.Errorf("unexpected sliding window reply: %v", raw)
	}

	return a == 1, int(c), o, nil
}

// Connect builds a Redis client from a redis:// URL and verifies
// connectivity before returning it.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}
