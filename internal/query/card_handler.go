package query

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/permission"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
)

// CardHandler processes card read queries
type CardHandler interface {
	GetCard(ctx context.Context, q GetCardQuery) (*domain.Card, error)
	ListCards(ctx context.Context, q ListCardsQuery) ([]*domain.Card, error)
}

type cardHandlerImpl struct {
	cardRepo  repository.CardRepository
	boardRepo repository.BoardRepository
	perm      permission.Service
}

// NewCardHandler creates a new query CardHandler
func NewCardHandler(cardRepo repository.CardRepository, boardRepo repository.BoardRepository, perm permission.Service) CardHandler {
	return &cardHandlerImpl{cardRepo: cardRepo, boardRepo: boardRepo, perm: perm}
}

// GetCard returns one card scoped to its board; any member may read it
func (h *cardHandlerImpl) GetCard(ctx context.Context, q GetCardQuery) (*domain.Card, error) {
	if _, err := loadBoard(ctx, h.boardRepo, q.BoardID); err != nil {
		return nil, err
	}
	if _, err := h.perm.RequireMember(ctx, q.BoardID, q.UserID); err != nil {
		return nil, err
	}

	card, err := h.cardRepo.FindByIDAndBoard(ctx, q.CardID, q.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	return card, nil
}

// ListCards returns a board's cards sorted by position ascending, ties
// broken by id. An empty board is a valid, empty listing.
func (h *cardHandlerImpl) ListCards(ctx context.Context, q ListCardsQuery) ([]*domain.Card, error) {
	if _, err := loadBoard(ctx, h.boardRepo, q.BoardID); err != nil {
		return nil, err
	}
	if _, err := h.perm.RequireMember(ctx, q.BoardID, q.UserID); err != nil {
		return nil, err
	}

	cards, err := h.cardRepo.FindByBoardID(ctx, q.BoardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list cards", err.Error())
	}
	return cards, nil
}
