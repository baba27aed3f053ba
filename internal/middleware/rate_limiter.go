package middleware

import (
	"net/http"
	"sync"
	"time"

	"brickpile/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Step rate limiter ─────────────────────────────────────────────────────────

// stepEntry tracks trial requests per IP within a sliding window.
type stepEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	stepMap   = make(map[string]*stepEntry)
	stepMapMu sync.Mutex
)

// StepRateLimiter limits step trials to 30 per minute per IP. Each trial is
// cheap, but unbounded trial storms would drown the request log.
func StepRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		stepMapMu.Lock()
		entry, exists := stepMap[ip]
		if !exists {
			entry = &stepEntry{}
			stepMap[ip] = entry
		}
		stepMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			// Reset sliding window
			entry.count = 0
			entry.windowEnd = now.Add(time.Minute)
		}

		entry.count++
		if entry.count > 30 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many steps, give your feet a minute"))
			return
		}
		c.Next()
	}
}

// ── General API rate limiter ──────────────────────────────────────────────────

// rateEntry tracks request counts per IP for the general API limiter.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	apiRateMap   = make(map[string]*rateEntry)
	apiRateMapMu sync.Mutex
)

// RateLimiter returns a general-purpose sliding-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		apiRateMapMu.Lock()
		entry, exists := apiRateMap[ip]
		if !exists {
			entry = &rateEntry{}
			apiRateMap[ip] = entry
		}
		apiRateMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries from both rate limiter maps to prevent
// memory leaks from accumulating IPs that never return.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		// Purge step rate limiter map
		stepMapMu.Lock()
		purgedStep := 0
		for ip, entry := range stepMap {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(stepMap, ip)
				purgedStep++
			}
			entry.mu.Unlock()
		}
		stepMapMu.Unlock()

		// Purge API rate limiter map
		apiRateMapMu.Lock()
		purgedAPI := 0
		for ip, entry := range apiRateMap {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(apiRateMap, ip)
				purgedAPI++
			}
			entry.mu.Unlock()
		}
		apiRateMapMu.Unlock()

		if purgedStep > 0 || purgedAPI > 0 {
			log.Debug().
				Int("step_entries_purged", purgedStep).
				Int("api_entries_purged", purgedAPI).
				Int("step_entries_remaining", len(stepMap)).
				Int("api_entries_remaining", len(apiRateMap)).
				Msg("rate limiter maps purged")
		}
	}
}
