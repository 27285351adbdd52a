package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when another run already holds the lock.
var ErrNotObtained = errors.New("run lock is held by another process")

// ReleaseFunc releases a lock obtained by Locker.Obtain.
type ReleaseFunc func(ctx context.Context) error

// Locker serialises sync runs across processes.
type Locker interface {
	Obtain(ctx context.Context) (ReleaseFunc, error)
	Close() error
}

// New returns a Redis-backed locker, or a no-op locker when Redis is not configured.
func New(ctx context.Context, cfg Config) (Locker, error) {
	if !cfg.Enabled() {
		return Noop{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisLocker{
		rdb:    rdb,
		locker: redislock.New(rdb),
		key:    cfg.Key,
		ttl:    ttl,
	}, nil
}

// RedisLocker obtains a single named lock through redislock.
type RedisLocker struct {
	rdb    *redis.Client
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

// Obtain takes the lock without waiting. It fails with ErrNotObtained if the lock is held.
func (l *RedisLocker) Obtain(ctx context.Context) (ReleaseFunc, error) {
	lk, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", l.key, err)
	}

	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// TTL expired during a long run; nothing left to release
			return nil
		}
		return err
	}, nil
}

// Close closes the underlying Redis client.
func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}

// Noop is used when no lock backend is configured. Overlapping runs are then left to
// the scheduler.
type Noop struct{}

// Obtain always succeeds.
func (Noop) Obtain(context.Context) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

// Close does nothing.
func (Noop) Close() error { return nil }
