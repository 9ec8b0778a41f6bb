// Package middleware provides the HTTP middleware stack for the Melissa API.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/themelissanyc/melissa/pkg/response"
)

// window tracks a fixed-window request count for one client IP.
type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (w *window) allow(max int, span time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(span)
	}

	w.count++
	return w.count <= max
}

// Limiter limits each client IP to max requests per span.
type Limiter struct {
	max  int
	span time.Duration

	mu      sync.Mutex
	windows map[string]*window
}

func NewLimiter(max int, span time.Duration) *Limiter {
	l := &Limiter{max: max, span: span, windows: map[string]*window{}}
	go l.sweep()
	return l
}

// sweep evicts expired windows every minute to bound memory on long runs.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, w := range l.windows {
			w.mu.Lock()
			expired := now.After(w.resetAt)
			w.mu.Unlock()
			if expired {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *Limiter) window(ip string) *window {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w, ok := l.windows[ip]; ok {
		return w
	}

	w := &window{resetAt: time.Now().Add(l.span)}
	l.windows[ip] = w
	return w
}

// Middleware rejects requests over the limit with a 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			ip = fwd
		}

		if !l.window(ip).allow(l.max, l.span) {
			response.Error(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}
