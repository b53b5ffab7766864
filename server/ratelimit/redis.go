package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mentor:ratelimit:"

// admitScript prunes expired admissions, checks the remaining count, and
// records the new admission in one atomic step. A rejected attempt leaves
// the window untouched.
var admitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisLimiter keeps per-user admission timestamps in a Redis sorted set,
// scored by admission time. Suitable for multi-process deployments where the
// in-process limiter would give each process its own budget.
type RedisLimiter struct {
	config Config
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{
		config: config.normalized(),
		client: client,
		now:    time.Now,
	}
}

// Admit implements Limiter.
func (l *RedisLimiter) Admit(ctx context.Context, userID string) (bool, error) {
	now := l.now()
	windowStart := now.Add(-l.config.Window)

	admitted, err := admitScript.Run(ctx, l.client,
		[]string{redisKeyPrefix + userID},
		strconv.FormatInt(windowStart.UnixNano(), 10),
		strconv.Itoa(l.config.Limit),
		strconv.FormatInt(now.UnixNano(), 10),
		uuid.NewString(),
		strconv.FormatInt(l.config.Window.Milliseconds(), 10),
	).Int()
	if err != nil {
		return false, err
	}
	return admitted == 1, nil
}
