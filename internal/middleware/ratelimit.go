package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimitedMessage is returned once a client has spent its budget.
const rateLimitedMessage = "Too many requests. Please try again later."

type visitor struct {
	count    int
	lastSeen time.Time
}

// RateLimiter is a fixed-window per-client limiter. Stale visitors are
// dropped by Sweep.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Sweep forgets visitors not seen for a full window.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > rl.window {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// Allow counts one request from the client behind r and reports whether it
// is still within the window's budget.
func (rl *RateLimiter) Allow(r *http.Request) bool {
	ip := clientIP(r)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastSeen: now}
		return true
	}

	if now.Sub(v.lastSeen) > rl.window {
		v.count = 1
		v.lastSeen = now
		return true
	}

	v.count++
	v.lastSeen = now
	return v.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(r) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", rateLimitedMessage, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port so one client maps to one visitor. chi's RealIP
// middleware has already rewritten RemoteAddr when proxy headers are present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
