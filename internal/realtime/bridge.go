package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"collab-board-api/internal/activity"
	"collab-board-api/internal/database"
)

const bridgeRetryInterval = 2 * time.Second

// Bridge subscribes to the board notification channels and relays each
// activity event to the sessions attached to that board. It keeps a
// per-board cursor of the last relayed event id so a redelivered event
// is never broadcast twice.
type Bridge struct {
	client   *redis.Client
	registry *Registry
	logger   *zap.Logger

	mu      sync.Mutex
	cursors map[uint]uint

	wg sync.WaitGroup

	startOnce sync.Once
}

// NewBridge creates a Bridge for the given registry
func NewBridge(client *redis.Client, registry *Registry, logger *zap.Logger) *Bridge {
	return &Bridge{
		client:   client,
		registry: registry,
		logger:   logger,
		cursors:  make(map[uint]uint),
	}
}

// Start launches the listener goroutine. Cancel the context to stop it,
// then call Wait for a clean shutdown.
func (b *Bridge) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		b.wg.Add(1)
		go b.run(ctx)
	})
}

// Wait blocks until the listener has exited
func (b *Bridge) Wait() {
	b.wg.Wait()
}

func (b *Bridge) run(ctx context.Context) {
	defer b.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		pubsub := b.client.PSubscribe(ctx, database.BoardChannelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			pubsub.Close()
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn("Bridge subscribe failed, retrying",
				zap.String("pattern", database.BoardChannelPattern),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(bridgeRetryInterval):
			}
			continue
		}

		b.logger.Info("Bridge listening", zap.String("pattern", database.BoardChannelPattern))
		b.consume(ctx, pubsub)
		pubsub.Close()

		if ctx.Err() != nil {
			return
		}
		b.logger.Warn("Bridge subscription lost, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(bridgeRetryInterval):
		}
	}
}

func (b *Bridge) consume(ctx context.Context, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.relay(msg)
		}
	}
}

func (b *Bridge) relay(msg *redis.Message) {
	boardID, err := parseBoardChannel(msg.Channel)
	if err != nil {
		b.logger.Warn("Ignoring message on unexpected channel",
			zap.String("channel", msg.Channel))
		return
	}

	var event activity.Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		b.logger.Warn("Ignoring malformed activity event",
			zap.String("channel", msg.Channel),
			zap.Error(err))
		return
	}

	if !b.advanceCursor(boardID, event.ID) {
		b.logger.Debug("Skipping already relayed event",
			zap.Uint("board_id", boardID),
			zap.Uint("event_id", event.ID))
		return
	}

	b.registry.Broadcast(boardID, []byte(msg.Payload))
}

// advanceCursor reports whether the event id moves the board's cursor
// forward, and advances it when it does.
func (b *Bridge) advanceCursor(boardID, eventID uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if eventID <= b.cursors[boardID] {
		return false
	}
	b.cursors[boardID] = eventID
	return true
}

func parseBoardChannel(channel string) (uint, error) {
	raw := strings.TrimPrefix(channel, "board:")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
