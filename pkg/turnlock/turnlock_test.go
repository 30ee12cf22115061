package turnlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New("", nil, 0, 0)
	require.NoError(t, err)
	assert.IsType(t, NoopLocker{}, l)

	l, err = New(ModeLocal, nil, 0, time.Second)
	require.NoError(t, err)
	assert.IsType(t, &LocalLocker{}, l)

	_, err = New(ModeRedis, nil, time.Minute, time.Second)
	assert.Error(t, err)

	_, err = New("zookeeper", nil, 0, 0)
	assert.Error(t, err)
}

func TestNoopLockerNeverBlocks(t *testing.T) {
	var l NoopLocker
	r1, err := l.Acquire(context.Background(), "s")
	require.NoError(t, err)
	r2, err := l.Acquire(context.Background(), "s")
	require.NoError(t, err)
	r1()
	r2()
}

func TestLocalLockerSerializesSameKey(t *testing.T) {
	l := NewLocalLocker(time.Second)
	ctx := context.Background()

	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "session-1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.Empty(t, l.entries, "entries are dropped once nobody holds or waits")
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	l := NewLocalLocker(50 * time.Millisecond)
	ctx := context.Background()

	r1, err := l.Acquire(ctx, "a")
	require.NoError(t, err)
	defer r1()

	r2, err := l.Acquire(ctx, "b")
	require.NoError(t, err)
	r2()
}

func TestLocalLockerTimesOut(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "busy")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "busy")
	assert.ErrorIs(t, err, ErrLockTimeout)

	release()
	release() // second call is a no-op

	again, err := l.Acquire(ctx, "busy")
	require.NoError(t, err)
	again()
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker(0)
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLocker(rdb, time.Minute, 150*time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("turnlock:session-1"))

	_, err = l.Acquire(ctx, "session-1")
	assert.ErrorIs(t, err, ErrLockTimeout)

	release()
	assert.False(t, mr.Exists("turnlock:session-1"))

	again, err := l.Acquire(ctx, "session-1")
	require.NoError(t, err)
	again()
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLocker(rdb, time.Minute, 0)

	release, err := l.Acquire(context.Background(), "s")
	require.NoError(t, err)

	// Simulate expiry followed by another holder taking the key.
	require.NoError(t, mr.Set("turnlock:s", "someone-else"))
	release()

	got, err := mr.Get("turnlock:s")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
