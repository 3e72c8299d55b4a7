package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/clinicdesk/internal/locking"
)

// ErrJobRunning is returned when another run of the same job holds the guard.
var ErrJobRunning = errors.New("job_already_running")

// RunGuard lets a named cron job run at most once at a time. With a redis
// backed locker the guard holds across replicas; the lease expires after ttl
// so a crashed run does not block the next trigger forever.
type RunGuard struct {
	locker locking.Locker
}

func NewRunGuard(locker locking.Locker) *RunGuard {
	if locker == nil {
		locker = locking.NewLocal()
	}
	return &RunGuard{locker: locker}
}

func (g *RunGuard) Run(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error {
	lease, err := g.locker.TryObtain(ctx, "job:"+name, ttl)
	if errors.Is(err, locking.ErrNotObtained) {
		return ErrJobRunning
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = lease.Release(context.WithoutCancel(ctx))
	}()
	return fn(ctx)
}
