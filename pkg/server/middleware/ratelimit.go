package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/security/auth"
	"intlab/rpncalc/pkg/server/api"
)

// tokenBucket allows bursts up to capacity while holding an average rate.
// Tokens are fractional so that slow refill rates are not lost to
// truncation.
type tokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	lastUsed   time.Time
}

func newTokenBucket(capacity int, refillRate float64, now time.Time) *tokenBucket {
	return &tokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: now,
		lastUsed:   now,
	}
}

// take consumes one token. When none is available it returns how long
// until one will be.
func (tb *tokenBucket) take(now time.Time) (bool, time.Duration) {
	tb.tokens = math.Min(tb.capacity, tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now
	tb.lastUsed = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	wait := (1 - tb.tokens) / tb.refillRate
	return false, time.Duration(wait * float64(time.Second))
}

// clientIdleTTL is how long an unused client bucket is kept.
const clientIdleTTL = 10 * time.Minute

// ClientLimiter keeps one token bucket per client address.
type ClientLimiter struct {
	rate  float64
	burst int

	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// NewClientLimiter creates a limiter from cfg, or returns nil when rate
// limiting is disabled.
func NewClientLimiter(cfg config.RateLimitConfig) *ClientLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(math.Ceil(cfg.RequestsPerSecond * 2))
	}
	return &ClientLimiter{
		rate:    cfg.RequestsPerSecond,
		burst:   burst,
		buckets: make(map[string]*tokenBucket),
		now:     time.Now,
	}
}

// Allow reports whether client may make a request now, and otherwise how
// long it should wait.
func (l *ClientLimiter) Allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > clientIdleTTL {
		for key, b := range l.buckets {
			if now.Sub(b.lastUsed) > clientIdleTTL {
				delete(l.buckets, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[client]
	if !ok {
		b = newTokenBucket(l.burst, l.rate, now)
		l.buckets[client] = b
	}
	return b.take(now)
}

// RateLimit rejects requests over the client's rate with 429 and a
// Retry-After header. A nil limiter passes every request through.
func RateLimit(limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := limiter.Allow(clientAddress(r))
			if !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				api.WriteError(w, api.NewError(api.ErrorTypeRateLimit, "", "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddress identifies the client by API key name when the request is
// authenticated, otherwise by remote IP.
func clientAddress(r *http.Request) string {
	if info, ok := auth.GetAPIKeyInfo(r.Context()); ok {
		return "key:" + info.Name
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
