package helper

import (
	"context"
	"encoding/json"
	"log"
	"opta/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is nil when REDIS_ADDR is unset; every cache call is then a miss.
var RedisClient *redis.Client

func ConnectRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, caching disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable at %s, caching disabled: %v", addr, err)
		_ = client.Close()
		return
	}

	RedisClient = client
	log.Printf("Connected to Redis at %s", addr)
}

func cacheGet(ctx context.Context, key string, dst any) bool {
	if RedisClient == nil {
		return false
	}
	raw, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := RedisClient.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

func cacheDel(ctx context.Context, keys ...string) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache del %v: %v", keys, err)
	}
}
