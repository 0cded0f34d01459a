package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

type clientWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a fixed-window per-client limiter keyed on remote
// address. It guards the expensive endpoints (import parsing and card
// generation); the rest of the API is unmetered.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}

	// Drop clients whose window has long expired
	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for addr, c := range rl.clients {
				if time.Since(c.windowStart) > 2*window {
					delete(rl.clients, addr)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

// allow counts a request against the client's current window and
// reports whether it fits, plus the time left in the window.
func (rl *RateLimiter) allow(addr string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[addr]
	if !ok || now.Sub(c.windowStart) > rl.window {
		rl.clients[addr] = &clientWindow{count: 1, windowStart: now}
		return true, 0
	}

	c.count++
	if c.count > rl.limit {
		return false, rl.window - now.Sub(c.windowStart)
	}
	return true, 0
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := rl.allow(r.RemoteAddr)
		if !ok {
			secs := int(retryAfter.Seconds())
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
