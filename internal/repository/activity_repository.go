package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
)

// ActivityRepository defines the interface for rendered activity events
type ActivityRepository interface {
	Create(ctx context.Context, feed *domain.ActivityFeed) error
	FindByBoardID(ctx context.Context, boardID uint, afterID uint, limit int) ([]*domain.ActivityFeed, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// activityRepositoryImpl is the GORM implementation of ActivityRepository
type activityRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

// Create creates a new activity feed entry
func (r *activityRepositoryImpl) Create(ctx context.Context, feed *domain.ActivityFeed) error {
	return r.db.WithContext(ctx).Create(feed).Error
}

// FindByBoardID lists a board's activity after the given cursor, oldest
// first. The id sequence is the delivery cursor, so clients can resume
// from the last id they saw.
func (r *activityRepositoryImpl) FindByBoardID(ctx context.Context, boardID uint, afterID uint, limit int) ([]*domain.ActivityFeed, error) {
	query := r.db.WithContext(ctx).
		Where("board_id = ? AND id > ?", boardID, afterID).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var feeds []*domain.ActivityFeed
	if err := query.Find(&feeds).Error; err != nil {
		return nil, err
	}
	return feeds, nil
}

// DeleteOlderThan prunes activity rows created before the cutoff and
// returns the number of rows removed. The audit ledger is never touched.
func (r *activityRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.ActivityFeed{})
	return result.RowsAffected, result.Error
}
