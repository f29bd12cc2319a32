package activity

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"collab-board-api/internal/database"
)

// Publisher pushes encoded activity events onto the per-board
// notification channel.
type Publisher interface {
	Publish(ctx context.Context, boardID uint, payload []byte) error
}

type redisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a Publisher backed by Redis pub/sub
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) Publisher {
	return &redisPublisher{client: client, logger: logger}
}

func (p *redisPublisher) Publish(ctx context.Context, boardID uint, payload []byte) error {
	channel := database.BoardChannel(boardID)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.logger.Error("Failed to publish activity event",
			zap.String("channel", channel),
			zap.Error(err))
		return err
	}
	return nil
}

// NopPublisher discards events. Used where realtime fan-out is not wired.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, boardID uint, payload []byte) error { return nil }
