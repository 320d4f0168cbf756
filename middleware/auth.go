package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	coachRepo "purposeful/database/repository/coach"
	"purposeful/utils"
)

// JWTAuthCoachMiddleware authenticates coach portal requests. The token
// must verify and its hash must match the hash stored on the coach record,
// so logout invalidates outstanding tokens. Hashes are cached in Redis to
// keep the hot path off Mongo.
func JWTAuthCoachMiddleware(coaches coachRepo.CoachRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		coachID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || coachID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + coachID
		ctx := c.Request.Context()

		cache := utils.CacheClient
		if cache != nil {
			cachedHash, err := cache.Get(ctx, cacheKey).Result()
			if err == nil {
				if cachedHash != computedHash {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
					return
				}
				_ = cache.Expire(ctx, cacheKey, time.Hour).Err()
				c.Set("coachID", coachID)
				c.Next()
				return
			}
			if err != redis.Nil {
				zap.L().Warn("auth cache lookup failed, falling back to database", zap.Error(err))
			}
		}

		coach, err := coaches.GetByID(c.Request.Context(), coachID)
		if err != nil || coach == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
			return
		}
		if coach.TokenHash == "" || coach.TokenHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		}

		if cache != nil {
			_ = cache.Set(ctx, cacheKey, computedHash, time.Hour).Err()
		}

		c.Set("coachID", coachID)
		c.Next()
	}
}
