package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiter hands out one token bucket per key and forgets idle keys after ttl.
type limiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu        sync.Mutex
	m         map[string]*visitor
	lastSweep time.Time
}

func newLimiter(limit rate.Limit, burst int, ttl time.Duration) *limiter {
	return &limiter{
		limit: limit,
		burst: burst,
		ttl:   ttl,
		m:     make(map[string]*visitor),
	}
}

func (l *limiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	if now.Sub(l.lastSweep) > l.ttl {
		for k, v := range l.m {
			if now.Sub(v.seen) > l.ttl {
				delete(l.m, k)
			}
		}
		l.lastSweep = now
	}
	v := l.m[key]
	if v == nil {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.m[key] = v
	}
	v.seen = now
	l.mu.Unlock()
	return v.lim.AllowN(now, 1)
}

// RateLimit returns a middleware that rate-limits by remote IP.
// Example: RateLimit(120, 60) => 120 req/min with burst 60
func RateLimit(reqPerMin int, burst int) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		// disabled
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	l := newLimiter(rate.Limit(float64(reqPerMin)/60.0), burst, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// honor X-Forwarded-For if behind a proxy
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
