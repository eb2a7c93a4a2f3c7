package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/pkg/redis"
)

// RateLimit caps requests per client IP for the route it wraps. Counting
// runs on Redis; when Redis is down the limiter fails open so traffic
// keeps flowing.
func RateLimit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		key := fmt.Sprintf("%s:%s", name, c.ClientIP())
		allowed, retryAfter, err := redis.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Limiter failure is not the client's problem
			c.Next()
			return
		}

		if !allowed {
			log.Warn("Request rate limited", map[string]interface{}{
				"limiter":     name,
				"ip":          c.ClientIP(),
				"retry_after": retryAfter,
			})
			errors.TooManyRequests(c, errors.RateLimited, "Too many requests, please slow down", retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}
