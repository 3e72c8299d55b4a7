package locking

import (
	"context"
	"sync"
	"time"
)

// localLocker is a keyed mutex for single-process deployments.
type localLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() Locker {
	return &localLocker{slots: map[string]*slot{}}
}

func (l *localLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	timer := time.NewTimer(ttl)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return &localLease{locker: l, key: key, slot: s}, nil
	case <-timer.C:
		l.unref(key, s)
		return nil, ErrNotObtained
	case <-ctx.Done():
		l.unref(key, s)
		return nil, ctx.Err()
	}
}

func (l *localLocker) TryObtain(_ context.Context, key string, _ time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	select {
	case s.ch <- struct{}{}:
		s.refs++
		return &localLease{locker: l, key: key, slot: s}, nil
	default:
		if s.refs == 0 {
			delete(l.slots, key)
		}
		return nil, ErrNotObtained
	}
}

func (l *localLocker) unref(key string, s *slot) {
	l.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
	l.mu.Unlock()
}

type localLease struct {
	once   sync.Once
	locker *localLocker
	key    string
	slot   *slot
}

func (l *localLease) Release(context.Context) error {
	l.once.Do(func() {
		<-l.slot.ch
		l.locker.unref(l.key, l.slot)
	})
	return nil
}
