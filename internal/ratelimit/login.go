package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/smallbiznis/clinicdesk/internal/config"
	"go.uber.org/zap"
)

const keyLoginIP = "auth:login:ip:%s"

// LoginLimiter throttles login attempts per client IP. It uses the shared
// token bucket when redis is configured and a fixed window per process otherwise.
type LoginLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int

	mu     sync.Mutex
	window time.Duration
	counts map[string]*windowCount
	now    func() time.Time
}

type windowCount struct {
	start time.Time
	n     int
}

func NewLoginLimiter(cfg config.Config, bucket *TokenBucket, log *zap.Logger) *LoginLimiter {
	perMinute := cfg.LoginRatePerMin
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginLimiter{
		bucket: bucket,
		log:    log.Named("ratelimit.login"),
		rate:   float64(perMinute) / 60.0,
		burst:  int(perMinute),
		window: time.Minute,
		counts: map[string]*windowCount{},
		now:    time.Now,
	}
}

// Allow reports whether ip may attempt a login now and, when not, how long to
// wait. Redis errors fail open so an outage does not lock out the front desk.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}

	if l.bucket != nil {
		d, err := l.bucket.Take(ctx, fmt.Sprintf(keyLoginIP, ip), l.rate, l.burst)
		if err != nil {
			l.log.Warn("login rate limit check failed", zap.Error(err))
			return true, 0
		}
		return d.Allowed, d.RetryAfter
	}
	return l.allowLocal(ip)
}

func (l *LoginLimiter) allowLocal(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.counts[ip]
	if !ok || now.Sub(entry.start) >= l.window {
		l.counts[ip] = &windowCount{start: now, n: 1}
		l.sweep(now)
		return true, 0
	}
	if entry.n >= l.burst {
		return false, entry.start.Add(l.window).Sub(now)
	}
	entry.n++
	return true, 0
}

func (l *LoginLimiter) sweep(now time.Time) {
	if len(l.counts) < 1024 {
		return
	}
	for key, entry := range l.counts {
		if now.Sub(entry.start) >= l.window {
			delete(l.counts, key)
		}
	}
}
