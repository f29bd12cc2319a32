package repository

import (
	"context"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
)

// MemberRepository defines the interface for board membership data access
type MemberRepository interface {
	Create(ctx context.Context, member *domain.BoardMember) error
	FindByBoardAndUser(ctx context.Context, boardID, userID uint) (*domain.BoardMember, error)
	FindByBoardID(ctx context.Context, boardID uint) ([]*domain.BoardMember, error)
	Update(ctx context.Context, member *domain.BoardMember) error
	Delete(ctx context.Context, boardID, userID uint) error
}

// memberRepositoryImpl is the GORM implementation of MemberRepository
type memberRepositoryImpl struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// Create creates a new board membership
func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.BoardMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// FindByBoardAndUser finds the membership for a (board, user) pair
func (r *memberRepositoryImpl) FindByBoardAndUser(ctx context.Context, boardID, userID uint) (*domain.BoardMember, error) {
	var member domain.BoardMember
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByBoardID finds all memberships of a board
func (r *memberRepositoryImpl) FindByBoardID(ctx context.Context, boardID uint) ([]*domain.BoardMember, error) {
	var members []*domain.BoardMember
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Update updates a membership
func (r *memberRepositoryImpl) Update(ctx context.Context, member *domain.BoardMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete removes the membership for a (board, user) pair
func (r *memberRepositoryImpl) Delete(ctx context.Context, boardID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&domain.BoardMember{}).Error
}
