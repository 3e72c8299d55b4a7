// Package locking serializes financial mutations on a key across requests.
package locking

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNotObtained = errors.New("lock_busy")

type Lease interface {
	Release(ctx context.Context) error
}

// Locker hands out exclusive leases on a key.
//
// Obtain waits up to ttl for the current holder to let go. TryObtain fails
// with ErrNotObtained immediately when the key is held.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
	TryObtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

func New(client *redis.Client, log *zap.Logger) Locker {
	if client == nil {
		return NewLocal()
	}
	log.Named("locking").Info("using redis locks")
	return NewRedis(client)
}

type redisLocker struct {
	client *redislock.Client
}

func NewRedis(client *redis.Client) Locker {
	return &redisLocker{client: redislock.New(client)}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	waitCtx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()

	lock, err := l.client.Obtain(waitCtx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(50 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return &redisLease{lock: lock}, nil
}

func (l *redisLocker) TryObtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return &redisLease{lock: lock}, nil
}

type redisLease struct {
	lock *redislock.Lock
}

func (l *redisLease) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}
