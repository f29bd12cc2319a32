package repository

import (
	"context"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
)

// AuditRepository defines the interface for the append-only audit ledger.
// There is deliberately no update or delete: entries are written once per
// accepted mutation and kept forever.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
	FindByID(ctx context.Context, id uint) (*domain.AuditLog, error)
	FindByBoardID(ctx context.Context, boardID uint) ([]*domain.AuditLog, error)
}

// auditRepositoryImpl is the GORM implementation of AuditRepository
type auditRepositoryImpl struct {
	db *gorm.DB
}

// NewAuditRepository creates a new instance of AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepositoryImpl{db: db}
}

// Append appends a new audit entry
func (r *auditRepositoryImpl) Append(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an audit entry by ID
func (r *auditRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.AuditLog, error) {
	var entry domain.AuditLog
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByBoardID lists a board's audit entries in append order
func (r *auditRepositoryImpl) FindByBoardID(ctx context.Context, boardID uint) ([]*domain.AuditLog, error) {
	var entries []*domain.AuditLog
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
