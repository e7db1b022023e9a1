package middleware

import (
	"net/http"
	"sync"
	"time"

	"wfgpos/internal/access"
	"wfgpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per key within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type limiter struct {
	name    string
	limit   int
	window  time.Duration
	entries map[string]*rateEntry
	mu      sync.Mutex
}

// limiterKey identifies the caller: the account once authenticated, the
// client IP before that.
func limiterKey(c *gin.Context) string {
	if p, ok := c.Get(PrincipalKey); ok {
		return "acct:" + p.(access.Principal).AccountID.String()
	}
	return "ip:" + c.ClientIP()
}

// allow records one hit for key and reports whether it is within the limit.
func (l *limiter) allow(key string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	entry, exists := l.entries[key]
	if !exists {
		entry = &rateEntry{}
		l.entries[key] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

// RateLimiter returns a fixed-window limiter of limit requests per window
// per caller. Each call creates an independent limiter.
func RateLimiter(name string, limit int, window time.Duration) gin.HandlerFunc {
	l := &limiter{
		name:    name,
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
	}
	go l.purge(purgeInterval)

	return func(c *gin.Context) {
		ok, windowEnd := l.allow(limiterKey(c), time.Now())
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests, please retry shortly"))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so keys that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func (l *limiter) purge(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		purged := 0
		for key, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, key)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Str("limiter", l.name).
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter purged")
		}
	}
}
