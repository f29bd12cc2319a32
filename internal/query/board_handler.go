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

// BoardHandler processes board read queries
type BoardHandler interface {
	GetBoard(ctx context.Context, q GetBoardQuery) (*domain.Board, error)
	ListMyBoards(ctx context.Context, q ListMyBoardsQuery) ([]*domain.Board, error)
	ListAccessibleBoards(ctx context.Context, q ListAccessibleBoardsQuery) ([]*domain.Board, error)
	ListMembers(ctx context.Context, q ListMembersQuery) ([]*domain.BoardMember, error)
}

type boardHandlerImpl struct {
	boardRepo  repository.BoardRepository
	memberRepo repository.MemberRepository
	perm       permission.Service
}

// NewBoardHandler creates a new query BoardHandler
func NewBoardHandler(boardRepo repository.BoardRepository, memberRepo repository.MemberRepository, perm permission.Service) BoardHandler {
	return &boardHandlerImpl{boardRepo: boardRepo, memberRepo: memberRepo, perm: perm}
}

// loadBoard resolves the board before any authorization check runs.
// Board deletion cascades memberships away, so checking membership
// first would turn every read of a deleted board into FORBIDDEN; an
// absent board must read as NotFound for members and strangers alike.
func loadBoard(ctx context.Context, repo repository.BoardRepository, boardID uint) (*domain.Board, error) {
	board, err := repo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch board", err.Error())
	}
	return board, nil
}

// GetBoard returns one board; any member may read it
func (h *boardHandlerImpl) GetBoard(ctx context.Context, q GetBoardQuery) (*domain.Board, error) {
	board, err := loadBoard(ctx, h.boardRepo, q.BoardID)
	if err != nil {
		return nil, err
	}
	if _, err := h.perm.RequireMember(ctx, q.BoardID, q.UserID); err != nil {
		return nil, err
	}
	return board, nil
}

// ListMyBoards returns boards owned by the user. An empty result is valid.
func (h *boardHandlerImpl) ListMyBoards(ctx context.Context, q ListMyBoardsQuery) ([]*domain.Board, error) {
	boards, err := h.boardRepo.FindByOwnerID(ctx, q.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list boards", err.Error())
	}
	return boards, nil
}

// ListAccessibleBoards returns every board the user holds a membership on
func (h *boardHandlerImpl) ListAccessibleBoards(ctx context.Context, q ListAccessibleBoardsQuery) ([]*domain.Board, error) {
	boards, err := h.boardRepo.FindAccessibleByUserID(ctx, q.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list boards", err.Error())
	}
	return boards, nil
}

// ListMembers returns a board's memberships; any member may read them
func (h *boardHandlerImpl) ListMembers(ctx context.Context, q ListMembersQuery) ([]*domain.BoardMember, error) {
	if _, err := loadBoard(ctx, h.boardRepo, q.BoardID); err != nil {
		return nil, err
	}
	if _, err := h.perm.RequireMember(ctx, q.BoardID, q.UserID); err != nil {
		return nil, err
	}

	members, err := h.memberRepo.FindByBoardID(ctx, q.BoardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list members", err.Error())
	}
	return members, nil
}
