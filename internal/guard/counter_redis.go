// internal/guard/counter_redis.go
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter implements DailyCounter on Redis. The compare-and-increment
// runs inside a Lua script so two concurrent reservations can never both
// pass the cap check; a GET -> check -> INCR sequence would race.
type RedisCounter struct {
	redis *redis.Client

	reserveScript *redis.Script
}

// Lua script for the atomic cap check. Increments only when the new value
// stays within the cap and sets the key TTL on first use.
const reserveLuaScript = `
local key = KEYS[1]
local cap = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")
if current + 1 > cap then
    return {0, current}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}
`

// Keys expire 25 hours after the first send of the day so a counter never
// leaks into the next day but survives clock skew around midnight.
const counterTTLSeconds = 90000

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{
		redis:         client,
		reserveScript: redis.NewScript(reserveLuaScript),
	}
}

// NewRedisCounterFromURL connects to Redis and verifies the connection.
func NewRedisCounterFromURL(redisURL string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisCounter(client), nil
}

func dayKey(orgID string, day time.Time) string {
	return fmt.Sprintf("sendcap:%s:%s", orgID, day.Format("2006-01-02"))
}

func (c *RedisCounter) Reserve(ctx context.Context, orgID string, day time.Time, cap int) (bool, error) {
	result, err := c.reserveScript.Run(ctx, c.redis,
		[]string{dayKey(orgID, day)},
		cap,
		counterTTLSeconds,
	).Slice()
	if err != nil {
		return false, fmt.Errorf("send cap reservation failed: %w", err)
	}

	allowed, ok := result[0].(int64)
	if !ok {
		return false, fmt.Errorf("unexpected reservation script result %v", result)
	}
	return allowed == 1, nil
}

func (c *RedisCounter) Release(ctx context.Context, orgID string, day time.Time) error {
	return c.redis.Decr(ctx, dayKey(orgID, day)).Err()
}

func (c *RedisCounter) Count(ctx context.Context, orgID string, day time.Time) (int, error) {
	val, err := c.redis.Get(ctx, dayKey(orgID, day)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

var _ DailyCounter = (*RedisCounter)(nil)
