package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	_, err = withRetry(ctx, func() (struct{}, error) {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return struct{}{}, fmt.Errorf("redis ping failed: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
