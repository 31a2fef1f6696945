package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

// memoryLimiter is a fixed-window counter per client key.
// Expired keys are swept at most once per window.
type memoryLimiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	clients   map[string]*clientInfo
	lastSweep time.Time
}

func newMemoryLimiter(maxRequests int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		max:     maxRequests,
		window:  window,
		clients: make(map[string]*clientInfo),
	}
}

// allow counts a request from key at now and reports whether it is within budget.
func (l *memoryLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		for k, ci := range l.clients {
			if now.Sub(ci.last) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.last) > l.window {
		ci = &clientInfo{last: now}
		l.clients[key] = ci
	}
	ci.count++
	return ci.count <= l.max
}

func (l *memoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is kept in process memory, per middleware instance.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newMemoryLimiter(maxRequests, window)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
