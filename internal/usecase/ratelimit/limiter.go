// Package ratelimit implements a per-client fixed-window request limiter.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Defaults for the intent endpoint.
const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 10
)

// UnknownClient is the key used when neither a proxy header nor a peer address is present.
const UnknownClient = "unknown"

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client key in fixed windows.
// Windows reset lazily on the first request after they expire.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// New creates a limiter. Non-positive values fall back to the defaults.
func New(period time.Duration, limit int) *Limiter {
	if period <= 0 {
		period = DefaultWindow
	}
	if limit <= 0 {
		limit = DefaultMaxRequests
	}
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow registers a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.period)}
		l.sweep(now)
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// RetryAfter returns how long key has to wait before its window resets.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		return 0
	}
	if d := w.resetAt.Sub(l.now()); d > 0 {
		return d
	}
	return 0
}

// sweep drops expired windows once the map grows past a few hundred keys.
func (l *Limiter) sweep(now time.Time) {
	if len(l.windows) < 512 {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

// ClientIP derives the limiter key from proxy headers, then the peer address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if ip := strings.TrimSpace(r.RemoteAddr); ip != "" {
		return ip
	}
	return UnknownClient
}
