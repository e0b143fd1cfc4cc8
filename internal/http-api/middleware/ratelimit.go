package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window request counter keyed on client IP, backed by
// Redis so limits hold across server instances. When Redis is unreachable
// the request is allowed through: availability over strictness here.
func RateLimit(rdb *redis.Client, logger *zap.Logger, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	windowSecs := int64(window.Seconds())

	return func(c *gin.Context) {
		bucket := time.Now().Unix() / windowSecs
		key := fmt.Sprintf("ratelimit:%s:%s:%d", prefix, c.ClientIP(), bucket)

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down."})
			c.Abort()
			return
		}

		c.Next()
	}
}
