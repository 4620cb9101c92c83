package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zeeverify/backend/internal/cache"
)

// RateLimiter throttles per-user actions. The shared counter lives in
// Redis so the limit holds across server instances; a local token
// bucket per user takes over if Redis is unreachable.
type RateLimiter struct {
	redis  *cache.RedisClient
	logger *slog.Logger

	action string
	perMin int

	fallback map[uuid.UUID]*rate.Limiter
	mu       sync.Mutex
}

func NewRateLimiter(redis *cache.RedisClient, action string, perMin int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		redis:    redis,
		logger:   logger,
		action:   action,
		perMin:   perMin,
		fallback: make(map[uuid.UUID]*rate.Limiter),
	}
}

func (rl *RateLimiter) allow(userID uuid.UUID) bool {
	allowed, err := rl.redis.AllowAction(userID, rl.action, rl.perMin, rl.perMin)
	if err == nil {
		return allowed
	}

	rl.logger.Warn("rate limiter falling back to local buckets", "action", rl.action, "error", err)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.fallback[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(rl.perMin)/60.0), rl.perMin)
		rl.fallback[userID] = limiter
	}
	return limiter.Allow()
}

// Cleanup periodically resets the fallback map so it cannot grow
// without bound during a long Redis outage.
func (rl *RateLimiter) Cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			if len(rl.fallback) > 10000 {
				rl.fallback = make(map[uuid.UUID]*rate.Limiter)
			}
			rl.mu.Unlock()
		}
	}()
}

// RateLimitMiddleware limits requests per authenticated user. Requests
// without an identity pass through; the auth middleware decides whether
// they may proceed at all.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.Next()
			return
		}

		if !rl.allow(userID) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
