// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"purposeful/config"

	"github.com/go-redis/redis/v8"
)

// AuthCachePrefix namespaces cached coach token hashes.
const AuthCachePrefix = "coach-auth:"

var (
	// CacheClient is the generic cache client, used for the coach
	// auth-token cache.
	CacheClient *redis.Client
)

// InitRedis initializes the generic Redis cache client.
func InitRedis() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}
