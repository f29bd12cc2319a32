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

// BoardHandler processes board mutation commands
type BoardHandler interface {
	CreateBoard(ctx context.Context, cmd CreateBoardCommand) (*domain.Board, error)
	UpdateBoard(ctx context.Context, cmd UpdateBoardCommand) (*domain.Board, error)
	DeleteBoard(ctx context.Context, cmd DeleteBoardCommand) error
}

type boardHandlerImpl struct {
	db        *gorm.DB
	submitter ActivitySubmitter
	logger    *zap.Logger
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(db *gorm.DB, submitter ActivitySubmitter, logger *zap.Logger) BoardHandler {
	return &boardHandlerImpl{db: db, submitter: submitter, logger: logger}
}

// CreateBoard creates a board together with its owner membership and the
// audit entry, atomically. Any authenticated user may create a board.
func (h *boardHandlerImpl) CreateBoard(ctx context.Context, cmd CreateBoardCommand) (*domain.Board, error) {
	board := &domain.Board{
		Name:        cmd.Name,
		Description: cmd.Description,
		OwnerID:     cmd.UserID,
	}

	var entry *domain.AuditLog
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Create(ctx, board); err != nil {
			return err
		}
		member := &domain.BoardMember{
			BoardID: board.ID,
			UserID:  cmd.UserID,
			Role:    domain.RoleOwner,
		}
		if err := repository.NewMemberRepository(tx).Create(ctx, member); err != nil {
			return err
		}
		var err error
		entry, err = appendAudit(ctx, tx, cmd.UserID, board.ID, domain.ActionBoardCreated, domain.BoardSnapshot{
			Name:        board.Name,
			Description: board.Description,
		})
		return err
	})
	if err != nil {
		return nil, internalError("Failed to create board", err)
	}

	h.submitAudit(entry)
	return board, nil
}

// UpdateBoard applies a partial update; owners and editors may update.
func (h *boardHandlerImpl) UpdateBoard(ctx context.Context, cmd UpdateBoardCommand) (*domain.Board, error) {
	var board *domain.Board
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perm := permission.NewService(repository.NewMemberRepository(tx))
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.UserID, domain.RoleOwner, domain.RoleEditor); err != nil {
			return err
		}

		var err error
		board, err = repository.NewBoardRepository(tx).FindByID(ctx, cmd.BoardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
			}
			return err
		}

		old := domain.BoardSnapshot{Name: board.Name, Description: board.Description}
		if cmd.Name != nil {
			board.Name = *cmd.Name
		}
		if cmd.Description != nil {
			board.Description = *cmd.Description
		}

		if err := repository.NewBoardRepository(tx).Update(ctx, board); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.UserID, board.ID, domain.ActionBoardUpdated, domain.BoardChange{
			Old: old,
			New: domain.BoardSnapshot{Name: board.Name, Description: board.Description},
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, internalError("Failed to update board", err)
	}

	h.submitAudit(entry)
	return board, nil
}

// DeleteBoard removes the board with its members and cards; owner only.
// The audit ledger keeps the board's history by value.
func (h *boardHandlerImpl) DeleteBoard(ctx context.Context, cmd DeleteBoardCommand) error {
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perm := permission.NewService(repository.NewMemberRepository(tx))
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.UserID, domain.RoleOwner); err != nil {
			return err
		}

		board, err := repository.NewBoardRepository(tx).FindByID(ctx, cmd.BoardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
			}
			return err
		}

		if err := repository.NewBoardRepository(tx).Delete(ctx, board.ID); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.UserID, cmd.BoardID, domain.ActionBoardDeleted, domain.BoardSnapshot{
			Name:        board.Name,
			Description: board.Description,
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return internalError("Failed to delete board", err)
	}

	h.submitAudit(entry)
	return nil
}

func (h *boardHandlerImpl) submitAudit(entry *domain.AuditLog) {
	if entry == nil {
		return
	}
	if !h.submitter.Submit(entry.ID) {
		// Mutation already committed; the ledger keeps the entry for
		// later reconciliation, only the live notification is lost.
		h.logger.Warn("Activity submission dropped, queue full",
			zap.Uint("audit_id", entry.ID),
			zap.Uint("board_id", entry.BoardID),
		)
	}
}
