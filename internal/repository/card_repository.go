package repository

import (
	"context"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
)

// CardRepository defines the interface for card data access
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByIDAndBoard(ctx context.Context, id, boardID uint) (*domain.Card, error)
	FindByBoardID(ctx context.Context, boardID uint) ([]*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, id uint) error
}

// cardRepositoryImpl is the GORM implementation of CardRepository
type cardRepositoryImpl struct {
	db *gorm.DB
}

// NewCardRepository creates a new instance of CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepositoryImpl{db: db}
}

// Create creates a new card
func (r *cardRepositoryImpl) Create(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// FindByIDAndBoard finds a card by id scoped to its owning board
func (r *cardRepositoryImpl) FindByIDAndBoard(ctx context.Context, id, boardID uint) (*domain.Card, error) {
	var card domain.Card
	if err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", id, boardID).
		First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByBoardID lists a board's cards ordered by position ascending,
// ties broken by id ascending so the order is deterministic.
func (r *cardRepositoryImpl) FindByBoardID(ctx context.Context, boardID uint) ([]*domain.Card, error) {
	var cards []*domain.Card
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC, id ASC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Update updates a card
func (r *cardRepositoryImpl) Update(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// Delete deletes a card
func (r *cardRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Card{}, id).Error
}
