package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Quota is the outcome of taking one request from a client's window.
type Quota struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Take(ctx context.Context, key string, limit int, window time.Duration) (Quota, error)
}

// MemoryLimiter keeps windows in process. Expired windows are swept at
// most once per window length.
type MemoryLimiter struct {
	mu        sync.Mutex
	windows   map[string]*exportWindow
	nextSweep time.Time
	now       func() time.Time
}

type exportWindow struct {
	used    int
	resetAt time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*exportWindow), now: time.Now}
}

func (l *MemoryLimiter) Take(_ context.Context, key string, limit int, window time.Duration) (Quota, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !now.Before(l.nextSweep) {
		for k, w := range l.windows {
			if !now.Before(w.resetAt) {
				delete(l.windows, k)
			}
		}
		l.nextSweep = now.Add(window)
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &exportWindow{resetAt: now.Add(window)}
		l.windows[key] = w
	}
	if w.used >= limit {
		return Quota{RetryAfter: w.resetAt.Sub(now)}, nil
	}
	w.used++
	return Quota{Allowed: true, Remaining: limit - w.used}, nil
}

// Size reports how many client windows are currently held.
func (l *MemoryLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// takeScript increments the window counter, starts its expiry on first use
// and returns {count, remaining ttl in ms}.
var takeScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter shares windows between API instances.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

func NewRedisLimiter(url string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisLimiter{client: client, prefix: "recruitment:export:"}, nil
}

func (l *RedisLimiter) Take(ctx context.Context, key string, limit int, window time.Duration) (Quota, error) {
	ms := window.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	res, err := takeScript.Run(ctx, l.client, []string{l.prefix + key}, ms).Int64Slice()
	if err != nil {
		return Quota{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return Quota{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, res)
	}
	used, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if used > limit {
		return Quota{RetryAfter: ttl}, nil
	}
	return Quota{Allowed: true, Remaining: limit - used}, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
