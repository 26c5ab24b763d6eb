package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d-osc/game-rpg-world-sub001/pkg/logger"
	"github.com/d-osc/game-rpg-world-sub001/pkg/ratelimit"
)

// RateLimitConfig configures the in-process token bucket limiter.
type RateLimitConfig struct {
	Capacity   int64
	RefillRate int64 // tokens per second
	KeyFunc    func(*gin.Context) string
}

// RedisRateLimitConfig configures the Redis-backed limiter.
type RedisRateLimitConfig struct {
	Limiter *ratelimit.RedisRateLimiter
	Limit   int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
}

// DefaultKeyFunc keys by authenticated player, falling back to client IP.
func DefaultKeyFunc(c *gin.Context) string {
	if playerID, exists := c.Get("playerId"); exists {
		return fmt.Sprintf("player:%v", playerID)
	}
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// PlayerKeyFunc keys by authenticated player only.
func PlayerKeyFunc(c *gin.Context) string {
	if playerID, exists := c.Get("playerId"); exists {
		return fmt.Sprintf("player:%v", playerID)
	}
	return ""
}

// RateLimit limits requests with an in-process token bucket per key.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	limiter := ratelimit.NewRateLimiter(config.Capacity, config.RefillRate)

	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required for rate limiting",
			})
			c.Abort()
			return
		}

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
		c.Next()
	}
}

// RedisRateLimit limits requests against a shared Redis budget so all
// replicas enforce the same ceiling. Redis failures let the request
// through; rate limiting is protection, not a correctness gate.
func RedisRateLimit(config RedisRateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required for rate limiting",
			})
			c.Abort()
			return
		}

		allowed, err := config.Limiter.Allow(c.Request.Context(), key, config.Limit, config.Window)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(config.Window.Seconds())))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// QueueJoinRateLimit caps queue joins per player: 10 per minute against
// Redis when available, an equivalent local bucket otherwise.
func QueueJoinRateLimit(limiter *ratelimit.RedisRateLimiter) gin.HandlerFunc {
	if limiter != nil {
		return RedisRateLimit(RedisRateLimitConfig{
			Limiter: limiter,
			Limit:   10,
			Window:  time.Minute,
			KeyFunc: PlayerKeyFunc,
		})
	}
	return RateLimit(RateLimitConfig{
		Capacity:   10,
		RefillRate: 1,
		KeyFunc:    PlayerKeyFunc,
	})
}
