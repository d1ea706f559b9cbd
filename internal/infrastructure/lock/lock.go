// Package lock provides the per-key locks that serialize document transitions.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "preload:lock:"

// RedisLocker obtains locks shared by every instance through Redis
type RedisLocker struct {
	client  *redislock.Client
	retries int
	backoff time.Duration
}

// NewRedisLocker creates a locker on an existing Redis client. Obtain
// retries a few times before giving up.
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		client:  redislock.New(client),
		retries: 5,
		backoff: 50 * time.Millisecond,
	}
}

// Obtain acquires key for ttl
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	lk, err := l.client.Obtain(ctx, keyPrefix+key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), l.retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrLocked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return redisLock{lk}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

// LocalLocker serializes holders within one process
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]chan struct{})}
}

// Obtain waits for key until ctx is done or ttl elapses. The ttl only
// bounds the wait; a local lock is held until released.
func (l *LocalLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	timer := time.NewTimer(ttl)
	defer timer.Stop()

	for {
		l.mu.Lock()
		busy, taken := l.held[key]
		if !taken {
			released := make(chan struct{})
			l.held[key] = released
			l.mu.Unlock()
			return &localLock{owner: l, key: key, released: released}, nil
		}
		l.mu.Unlock()

		select {
		case <-busy:
		case <-timer.C:
			return nil, shared.ErrLocked
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type localLock struct {
	owner    *LocalLocker
	key      string
	released chan struct{}
	once     sync.Once
}

func (l *localLock) Release(context.Context) error {
	l.once.Do(func() {
		l.owner.mu.Lock()
		delete(l.owner.held, l.key)
		l.owner.mu.Unlock()
		close(l.released)
	})
	return nil
}

var (
	_ shared.Locker = (*RedisLocker)(nil)
	_ shared.Locker = (*LocalLocker)(nil)
)
