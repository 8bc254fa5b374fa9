package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	// rateLimitAuthTTL is the TTL for auth rate limit keys.
	rateLimitAuthTTL = 120 * time.Second
	// localLimiterIdle is how long an unused in-process bucket is kept.
	localLimiterIdle = 10 * time.Minute
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by ip may proceed.
type Limiter interface {
	Allow(ctx context.Context, ip string) (*RateLimitResult, error)
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RedisLimiter is a token bucket shared by every API instance.
type RedisLimiter struct {
	cache         *Cache
	ratePerSecond float64
	burst         int
}

// NewRedisLimiter creates a limiter allowing ratePerMinute sustained
// requests with the given burst.
func NewRedisLimiter(c *Cache, ratePerMinute, burst int) *RedisLimiter {
	return &RedisLimiter{
		cache:         c,
		ratePerSecond: float64(ratePerMinute) / 60.0,
		burst:         burst,
	}
}

// Allow consumes one token for ip. Redis errors fail open.
func (l *RedisLimiter) Allow(ctx context.Context, ip string) (*RateLimitResult, error) {
	bucketKey := key("ratelimit", "auth", hashIP(ip))
	now := time.Now()

	result, err := tokenBucketScript.Run(ctx, l.cache.client,
		[]string{bucketKey},
		l.ratePerSecond, l.burst, now.Unix(), int(rateLimitAuthTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int64(l.burst),
			ResetAt:   now.Add(time.Minute),
		}, err
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		ResetAt:    now.Add(time.Duration(float64(time.Second) / l.ratePerSecond)),
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

// LocalLimiter is an in-process token bucket per IP, used when Redis is not
// configured.
type LocalLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	buckets   map[string]*localBucket
	now       func() time.Time
	lastPrune time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates an in-process limiter.
func NewLocalLimiter(ratePerMinute, burst int) *LocalLimiter {
	return &LocalLimiter{
		limit:   rate.Limit(float64(ratePerMinute) / 60.0),
		burst:   burst,
		buckets: make(map[string]*localBucket),
		now:     time.Now,
	}
}

// Allow consumes one token for ip.
func (l *LocalLimiter) Allow(_ context.Context, ip string) (*RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	b, ok := l.buckets[ip]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := int64(math.Floor(b.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}

	res := &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   now.Add(time.Duration(float64(time.Second) / float64(l.limit))),
	}
	if !allowed {
		deficit := 1 - b.limiter.TokensAt(now)
		res.RetryAfter = time.Duration(math.Ceil(deficit/float64(l.limit))) * time.Second
	}
	return res, nil
}

// prune drops buckets idle for longer than localLimiterIdle. Caller holds mu.
func (l *LocalLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < localLimiterIdle {
		return
	}
	l.lastPrune = now
	for ip, b := range l.buckets {
		if now.Sub(b.lastSeen) > localLimiterIdle {
			delete(l.buckets, ip)
		}
	}
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
