// Package ratelimit is a process-local, fixed-window request limiter. It is
// advisory: counts reset on restart and are not shared between instances.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/prometheus"
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter allows max requests per key per window. Expired windows are
// dropped lazily when their key is next seen.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration
	now     func() time.Time
}

// New creates a limiter
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key may still make in its window
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !l.now().Before(w.resetAt) {
		delete(l.windows, key)
		return l.max
	}
	return max(l.max-w.count, 0)
}

// ResetAt returns when key's current window ends
func (l *Limiter) ResetAt(key string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w, ok := l.windows[key]; ok {
		return w.resetAt
	}
	return l.now().Add(l.period)
}

// Middleware rejects over-limit callers with a GraphQL-shaped error body
type Middleware struct {
	limiter *Limiter
	logger  *logrus.Logger
}

// NewMiddleware creates the HTTP middleware
func NewMiddleware(limiter *Limiter, logger *logrus.Logger) *Middleware {
	return &Middleware{limiter: limiter, logger: logger}
}

// Limit keys on the authenticated subject when known, otherwise the client IP.
// It must run after the auth middleware.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)

		allowed := m.limiter.Allow(key)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(m.limiter.Remaining(key)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(m.limiter.ResetAt(key).Unix(), 10))

		if !allowed {
			prometheus.RateLimitRejections.Inc()
			m.logger.WithField("key", key).Warn("Rate limit exceeded")

			e := apperr.RateLimited("")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(e.Kind.StatusCode())
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": nil,
				"errors": []map[string]interface{}{{
					"message":    e.Message,
					"extensions": e.Extensions(),
				}},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if id := auth.IdentityFromContext(r.Context()); id.Authenticated() {
		return "user:" + id.SubjectID
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return "ip:" + strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
