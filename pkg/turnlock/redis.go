package turnlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "turnlock:"
	redisPollEvery   = 100 * time.Millisecond
	redisReleaseWait = 2 * time.Second
)

// Deletes the key only while it still holds our token, so an expired lock that another
// turn re-acquired is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker serializes turns across instances with SET NX PX.
type RedisLocker struct {
	rdb  *redis.Client
	ttl  time.Duration
	wait time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: wait}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	var deadline time.Time
	if l.wait > 0 {
		deadline = time.Now().Add(l.wait)
	}

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisPollEvery):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be cancelled by the time we release.
			releaseCtx, cancel := context.WithTimeout(context.Background(), redisReleaseWait)
			defer cancel()
			releaseScript.Run(releaseCtx, l.rdb, []string{redisKey}, token)
		})
	}, nil
}
