package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis creates a redis client and verifies the connection
func NewRedis(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// BoardChannel returns the pub/sub channel name for a board's activity
// events. The bridge listener subscribes to BoardChannelPattern and the
// materializer publishes here, one channel per board.
func BoardChannel(boardID uint) string {
	return fmt.Sprintf("board:%d", boardID)
}

// BoardChannelPattern matches every board-scoped channel
const BoardChannelPattern = "board:*"
