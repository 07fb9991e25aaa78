// Package lock provides distributed critical sections backed by Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when another holder keeps the lock past the wait budget.
var ErrNotObtained = errors.New("lock: not obtained")

// Release frees a held lock.
type Release func(context.Context) error

// RedisLocker obtains short-lived locks through redislock.
type RedisLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

// Options tunes lock behaviour.
type Options struct {
	TTL     time.Duration
	Wait    time.Duration
	Backoff time.Duration
}

// NewRedisLocker builds a locker on top of a go-redis client.
func NewRedisLocker(rdb *redis.Client, opts Options) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 25 * time.Millisecond
	}
	if opts.Wait <= 0 {
		opts.Wait = opts.TTL
	}
	return &RedisLocker{
		client:  redislock.New(rdb),
		ttl:     opts.TTL,
		wait:    opts.Wait,
		backoff: opts.Backoff,
	}
}

// Acquire blocks up to the wait budget for key.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	retries := int(l.wait / l.backoff)
	lk, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("lock: obtain %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}
