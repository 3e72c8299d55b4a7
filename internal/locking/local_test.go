package locking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerializesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := l.Obtain(ctx, "billing:patient:1", time.Second)
			require.NoError(t, err)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			_ = lease.Release(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocalLockerTimesOut(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	lease, err := l.Obtain(ctx, "k", time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "k", 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrNotObtained)

	require.NoError(t, lease.Release(ctx))
	require.NoError(t, lease.Release(ctx))

	other, err := l.Obtain(ctx, "k", 10*time.Millisecond)
	require.NoError(t, err)
	_ = other.Release(ctx)
}

func TestLocalLockerTryObtain(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	lease, err := l.TryObtain(ctx, "job:overdue", time.Minute)
	require.NoError(t, err)

	_, err = l.TryObtain(ctx, "job:overdue", time.Minute)
	assert.ErrorIs(t, err, ErrNotObtained)

	other, err := l.TryObtain(ctx, "job:publish", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	again, err := l.TryObtain(ctx, "job:overdue", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}
