package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Tokens are returned as a string: redis truncates Lua numbers to integers.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call("TIME")
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local ts = tonumber(state[2]) or now
if now > ts then
  tokens = math.min(burst, tokens + (now - ts) / 1000 * rate)
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)
return {allowed, tostring(tokens)}
`

// TokenBucket is a redis-backed token bucket shared by every replica.
type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

// Decision is the outcome of one Take call.
type Decision struct {
	Allowed    bool
	Remaining  float64
	RetryAfter time.Duration
}

// NewTokenBucket returns nil without redis; callers fall back to in-process limits.
func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{client: client, script: redis.NewScript(tokenBucketScript)}
}

// Take consumes one token from key, refilling at rate tokens per second up to burst.
func (t *TokenBucket) Take(ctx context.Context, key string, rate float64, burst int) (Decision, error) {
	switch {
	case t == nil:
		return Decision{}, errors.New("token bucket not configured")
	case key == "":
		return Decision{}, errors.New("token bucket key is empty")
	case rate <= 0 || burst <= 0:
		return Decision{}, fmt.Errorf("token bucket rate %v and burst %d must be positive", rate, burst)
	}

	res, err := t.script.Run(ctx, t.client, []string{key}, rate, burst, bucketTTL(rate, burst).Milliseconds()).Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("token bucket: unexpected reply %v", res)
	}

	allowed, _ := res[0].(int64)
	remainingRaw, _ := res[1].(string)
	remaining, err := strconv.ParseFloat(remainingRaw, 64)
	if err != nil {
		return Decision{}, fmt.Errorf("token bucket: parse remaining %q: %w", remainingRaw, err)
	}

	d := Decision{Allowed: allowed == 1, Remaining: remaining}
	if !d.Allowed {
		d.RetryAfter = time.Duration((1 - remaining) / rate * float64(time.Second))
	}
	return d, nil
}

// bucketTTL keeps idle keys around for twice the time a full refill takes.
func bucketTTL(rate float64, burst int) time.Duration {
	seconds := math.Max(1, math.Ceil(float64(burst)/rate*2))
	return time.Duration(seconds) * time.Second
}
