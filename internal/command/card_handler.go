package command

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/permission"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
)

// CardHandler processes card mutation commands
type CardHandler interface {
	CreateCard(ctx context.Context, cmd CreateCardCommand) (*domain.Card, error)
	UpdateCard(ctx context.Context, cmd UpdateCardCommand) (*domain.Card, error)
	DeleteCard(ctx context.Context, cmd DeleteCardCommand) error
}

type cardHandlerImpl struct {
	db        *gorm.DB
	submitter ActivitySubmitter
	logger    *zap.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(db *gorm.DB, submitter ActivitySubmitter, logger *zap.Logger) CardHandler {
	return &cardHandlerImpl{db: db, submitter: submitter, logger: logger}
}

// CreateCard creates a card on a board; owner only.
func (h *cardHandlerImpl) CreateCard(ctx context.Context, cmd CreateCardCommand) (*domain.Card, error) {
	var card *domain.Card
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perm := permission.NewService(repository.NewMemberRepository(tx))
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.UserID, domain.RoleOwner); err != nil {
			return err
		}

		if _, err := repository.NewBoardRepository(tx).FindByID(ctx, cmd.BoardID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
			}
			return err
		}

		card = &domain.Card{
			BoardID:     cmd.BoardID,
			Title:       cmd.Title,
			Description: cmd.Description,
			Position:    cmd.Position,
			CreatedBy:   cmd.UserID,
		}
		if err := repository.NewCardRepository(tx).Create(ctx, card); err != nil {
			return err
		}

		var err error
		entry, err = appendAudit(ctx, tx, cmd.UserID, cmd.BoardID, domain.ActionCardCreated, domain.CardSnapshot{
			ID:          card.ID,
			Title:       card.Title,
			Description: card.Description,
			Position:    card.Position,
			CreatedBy:   card.CreatedBy,
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, internalError("Failed to create card", err)
	}

	h.submitAudit(entry)
	return card, nil
}

// UpdateCard applies a partial update; owners and editors may update.
func (h *cardHandlerImpl) UpdateCard(ctx context.Context, cmd UpdateCardCommand) (*domain.Card, error) {
	var card *domain.Card
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perm := permission.NewService(repository.NewMemberRepository(tx))
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.UserID, domain.RoleOwner, domain.RoleEditor); err != nil {
			return err
		}

		var err error
		card, err = repository.NewCardRepository(tx).FindByIDAndBoard(ctx, cmd.CardID, cmd.BoardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
			}
			return err
		}

		old := domain.CardSnapshot{
			Title:       card.Title,
			Description: card.Description,
			Position:    card.Position,
			IsComplete:  card.IsComplete,
		}
		if cmd.Title != nil {
			card.Title = *cmd.Title
		}
		if cmd.Description != nil {
			card.Description = *cmd.Description
		}
		if cmd.Position != nil {
			card.Position = *cmd.Position
		}
		if cmd.IsComplete != nil {
			card.IsComplete = *cmd.IsComplete
		}

		if err := repository.NewCardRepository(tx).Update(ctx, card); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.UserID, cmd.BoardID, domain.ActionCardUpdated, domain.CardChange{
			Old: old,
			New: domain.CardSnapshot{
				Title:       card.Title,
				Description: card.Description,
				Position:    card.Position,
				IsComplete:  card.IsComplete,
			},
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, internalError("Failed to update card", err)
	}

	h.submitAudit(entry)
	return card, nil
}

// DeleteCard deletes a card; owner only.
func (h *cardHandlerImpl) DeleteCard(ctx context.Context, cmd DeleteCardCommand) error {
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perm := permission.NewService(repository.NewMemberRepository(tx))
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.UserID, domain.RoleOwner); err != nil {
			return err
		}

		card, err := repository.NewCardRepository(tx).FindByIDAndBoard(ctx, cmd.CardID, cmd.BoardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
			}
			return err
		}

		if err := repository.NewCardRepository(tx).Delete(ctx, card.ID); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.UserID, cmd.BoardID, domain.ActionCardDeleted, domain.CardSnapshot{
			ID:          card.ID,
			Title:       card.Title,
			Description: card.Description,
			Position:    card.Position,
			IsComplete:  card.IsComplete,
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return internalError("Failed to delete card", err)
	}

	h.submitAudit(entry)
	return nil
}

func (h *cardHandlerImpl) submitAudit(entry *domain.AuditLog) {
	if entry == nil {
		return
	}
	if !h.submitter.Submit(entry.ID) {
		h.logger.Warn("Activity submission dropped, queue full",
			zap.Uint("audit_id", entry.ID),
			zap.Uint("board_id", entry.BoardID),
		)
	}
}
