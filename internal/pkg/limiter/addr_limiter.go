/*
Package limiter provides per-address rate limiting for the game server.

It applies the Token Bucket algorithm (rate.Limiter) per client address and runs
a cleanup goroutine that periodically drops idle limiters to bound memory. The
same limiter type guards the HTTP room-creation endpoint (keyed by IP) and the
UDP chat relay (keyed by source address).
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mysterynum/internal/pkg/errs"
	"mysterynum/internal/pkg/logx"
	"mysterynum/internal/pkg/resp"
)

// AddrRateLimiter implements a rate limiter keyed by client address.
type AddrRateLimiter struct {
	// mu protects concurrent access to the limits map.
	mu sync.RWMutex

	// limits stores the map from client address to its *rate.Limiter instance.
	limits map[string]*rate.Limiter

	// r defines the number of events allowed per second.
	r rate.Limit

	// b is the burst size (token bucket capacity).
	b int
}

// NewAddrRateLimiter creates a new AddrRateLimiter with rate r and burst b,
// and starts a background goroutine that reaps idle entries.
func NewAddrRateLimiter(r rate.Limit, b int) *AddrRateLimiter {
	l := &AddrRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go l.cleanUpIdle()

	return l
}

// GetLimiter retrieves the rate limiter for the given address, creating one on
// first sight. Double-checked locking keeps creation concurrent-safe.
func (l *AddrRateLimiter) GetLimiter(addr string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limits[addr]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		limiter, exists = l.limits[addr]
		if !exists {
			limiter = rate.NewLimiter(l.r, l.b)
			l.limits[addr] = limiter
		}
		l.mu.Unlock()
	}

	return limiter
}

// Allow reports whether an event from addr may proceed under the limit.
func (l *AddrRateLimiter) Allow(addr string) bool {
	return l.GetLimiter(addr).Allow()
}

// cleanUpIdle periodically removes limiters whose token bucket is full again,
// meaning the address has been quiet long enough to forget.
func (l *AddrRateLimiter) cleanUpIdle() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		count := 0
		for addr, limiter := range l.limits {
			if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
				delete(l.limits, addr)
				count++
			}
		}
		remaining := len(l.limits)
		l.mu.Unlock()
		logx.Info("Rate limiter cleanup finished.", "removed", count, "remaining", remaining)
	}
}

// Middleware returns an HTTP middleware that rejects over-limit requests with
// a 429 Too Many Requests response.
func (l *AddrRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !l.Allow(ip) {
			rateLimitErr := errs.NewError(errs.ErrRateLimitExceeded)
			resp.RespondError(w, r, rateLimitErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}
