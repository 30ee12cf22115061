package turnlock

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	slot chan struct{}
	refs int
}

// LocalLocker is an in-process keyed mutex. It only serializes turns handled by the
// same instance.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	wait    time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		entries: make(map[string]*localEntry),
		wait:    wait,
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{slot: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		l.forget(key, entry)
		return nil, ctx.Err()
	case <-timeout:
		l.forget(key, entry)
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.slot
			l.forget(key, entry)
		})
	}, nil
}

func (l *LocalLocker) forget(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
