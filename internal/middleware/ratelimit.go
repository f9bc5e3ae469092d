package middleware

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/neboloop/cryptoportal/internal/httputil"
	"github.com/neboloop/cryptoportal/internal/logging"
)

// RateLimitConfig allows Requests per Interval for each client IP, all of
// them usable in a burst.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// RateLimiter keeps one token bucket per client IP. A bucket left idle for a
// whole interval has refilled, so it is dropped on the next sweep.
type RateLimiter struct {
	cfg   RateLimitConfig
	limit rate.Limit
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &RateLimiter{
		cfg:      cfg,
		limit:    rate.Every(cfg.Interval / time.Duration(cfg.Requests)),
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

func (l *RateLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.Interval {
		l.sweep(now)
	}
	c, ok := l.limiters[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.cfg.Requests)}
		l.limiters[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep drops buckets idle for at least one interval. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	for ip, c := range l.limiters {
		if now.Sub(c.lastSeen) >= l.cfg.Interval {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// Len reports how many client buckets are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Allow takes a token for ip. When none is left it reports how long the
// client should wait.
func (l *RateLimiter) Allow(ip string) (bool, time.Duration) {
	now := l.now()
	reservation := l.limiter(ip, now).ReserveN(now, 1)
	if !reservation.OK() {
		return false, l.cfg.Interval
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, wait := l.Allow(ip)
			if !ok {
				logging.Warnf("rate limit exceeded for %s on %s", ip, r.URL.Path)
				httputil.TooManyRequests(w, int(math.Ceil(wait.Seconds())))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on chi's RealIP having already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
