// Package turnlock serializes chat turns per session.
//
// A turn holds its lock from session validation to commit, across the generation call.
package turnlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when another turn kept the session busy for longer than
// the configured wait.
var ErrLockTimeout = errors.New("turn lock wait timed out")

const (
	ModeNone  = "none"
	ModeLocal = "local"
	ModeRedis = "redis"
)

// ReleaseFunc frees a held lock. Calling it more than once is harmless.
type ReleaseFunc func()

type Locker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// New builds the locker selected by mode. rdb is only required for ModeRedis.
func New(mode string, rdb *redis.Client, ttl, wait time.Duration) (Locker, error) {
	switch mode {
	case "", ModeNone:
		return NoopLocker{}, nil
	case ModeLocal:
		return NewLocalLocker(wait), nil
	case ModeRedis:
		if rdb == nil {
			return nil, fmt.Errorf("turn lock mode %q requires REDIS_URL", mode)
		}
		return NewRedisLocker(rdb, ttl, wait), nil
	default:
		return nil, fmt.Errorf("unsupported turn lock mode: %s", mode)
	}
}

// NoopLocker lets concurrent turns race; the last commit wins the artifact.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	return func() {}, nil
}
