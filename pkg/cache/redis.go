// Package cache owns the redis connection shared by the HTTP layer.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/wardrobe/config"
)

// Connect dials REDIS_ADDR. It returns (nil, nil) when no address is
// configured so callers can fall back to in-process state.
func Connect(ctx context.Context) (*redis.Client, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return client, nil
}
