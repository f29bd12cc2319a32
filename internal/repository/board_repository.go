package repository

import (
	"context"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uint) (*domain.Board, error)
	FindByOwnerID(ctx context.Context, ownerID uint) ([]*domain.Board, error)
	FindAccessibleByUserID(ctx context.Context, userID uint) ([]*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id uint) error
}

// boardRepositoryImpl is the GORM implementation of BoardRepository
type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

// Create creates a new board
func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindByID finds a board by ID
func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByOwnerID finds all boards owned by a user
func (r *boardRepositoryImpl) FindByOwnerID(ctx context.Context, ownerID uint) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// FindAccessibleByUserID finds all boards the user holds a membership on
func (r *boardRepositoryImpl) FindAccessibleByUserID(ctx context.Context, userID uint) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.board_id = boards.id").
		Where("board_members.user_id = ?", userID).
		Order("boards.id ASC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update updates a board
func (r *boardRepositoryImpl) Update(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete deletes a board along with its members and cards.
// Cascade constraints are declared on the schema, but the child rows are
// removed explicitly as well so the behavior holds on databases where the
// constraints were not provisioned (such as the sqlite test databases).
func (r *boardRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&domain.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&domain.BoardMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Board{}, id).Error
	})
}
