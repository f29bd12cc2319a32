package activity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/repository"
)

// Materializer consumes committed audit ids and turns each one into a
// rendered activity feed entry, then pushes the entry to the board's
// notification channel. Rendering runs outside the command transaction,
// so a slow or failed materialization never blocks a mutation.
type Materializer struct {
	db        *gorm.DB
	publisher Publisher
	logger    *zap.Logger

	queue   chan uint
	stop    chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewMaterializer creates a Materializer with a bounded queue
func NewMaterializer(db *gorm.DB, publisher Publisher, logger *zap.Logger, queueSize int) *Materializer {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Materializer{
		db:        db,
		publisher: publisher,
		logger:    logger,
		queue:     make(chan uint, queueSize),
		stop:      make(chan struct{}),
	}
}

// Submit enqueues an audit id for materialization. It never blocks;
// a full queue or a stopped worker drops the submission and reports
// false.
func (m *Materializer) Submit(auditID uint) bool {
	if m.stopped.Load() {
		return false
	}
	select {
	case m.queue <- auditID:
		return true
	default:
		return false
	}
}

// Start launches the worker goroutine
func (m *Materializer) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.wg.Add(1)
		go m.run(ctx)
	})
}

// Stop rejects further submissions, drains the queue and waits for the
// worker to exit.
func (m *Materializer) Stop() {
	m.stopOnce.Do(func() {
		m.stopped.Store(true)
		close(m.stop)
	})
	m.wg.Wait()
}

func (m *Materializer) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case auditID := <-m.queue:
			m.process(ctx, auditID)
		case <-m.stop:
			m.drain(ctx)
			return
		case <-ctx.Done():
			m.drain(ctx)
			return
		}
	}
}

func (m *Materializer) drain(ctx context.Context) {
	for {
		select {
		case auditID := <-m.queue:
			m.process(ctx, auditID)
		default:
			return
		}
	}
}

func (m *Materializer) process(ctx context.Context, auditID uint) {
	// shutdown still finishes in-flight entries, hence WithoutCancel
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	auditRepo := repository.NewAuditRepository(m.db)
	audit, err := auditRepo.FindByID(opCtx, auditID)
	if err != nil {
		m.logger.Error("Failed to load audit entry for materialization",
			zap.Uint("audit_id", auditID),
			zap.Error(err))
		return
	}

	userRepo := repository.NewUserRepository(m.db)
	actor, err := userRepo.FindByID(opCtx, audit.ActorID)
	if err != nil {
		m.logger.Warn("Skipping activity entry, actor lookup failed",
			zap.Uint("audit_id", auditID),
			zap.Uint("actor_id", audit.ActorID),
			zap.Error(err))
		return
	}

	feed := &domain.ActivityFeed{
		BoardID:      audit.BoardID,
		ActorID:      audit.ActorID,
		ActivityType: audit.Action,
		Message:      RenderMessage(audit, actor.Name),
		Metadata:     audit.Payload,
	}

	activityRepo := repository.NewActivityRepository(m.db)
	if err := activityRepo.Create(opCtx, feed); err != nil {
		m.logger.Error("Failed to persist activity entry",
			zap.Uint("audit_id", auditID),
			zap.Error(err))
		return
	}

	payload, err := NewEvent(feed).Encode()
	if err != nil {
		m.logger.Error("Failed to encode activity event",
			zap.Uint("activity_id", feed.ID),
			zap.Error(err))
		return
	}

	if err := m.publisher.Publish(opCtx, feed.BoardID, payload); err != nil {
		// the entry is persisted; clients can still read it via the feed query
		m.logger.Warn("Activity event not published",
			zap.Uint("activity_id", feed.ID),
			zap.Uint("board_id", feed.BoardID),
			zap.Error(err))
	}
}
