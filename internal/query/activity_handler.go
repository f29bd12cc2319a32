package query

import (
	"context"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/permission"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
)

const defaultActivityLimit = 50

// ActivityHandler processes activity feed read queries
type ActivityHandler interface {
	ListActivity(ctx context.Context, q ListActivityQuery) ([]*domain.ActivityFeed, error)
}

type activityHandlerImpl struct {
	activityRepo repository.ActivityRepository
	boardRepo    repository.BoardRepository
	perm         permission.Service
}

// NewActivityHandler creates a new query ActivityHandler
func NewActivityHandler(activityRepo repository.ActivityRepository, boardRepo repository.BoardRepository, perm permission.Service) ActivityHandler {
	return &activityHandlerImpl{activityRepo: activityRepo, boardRepo: boardRepo, perm: perm}
}

// ListActivity returns a board's rendered activity after the cursor,
// oldest first, bounded by the limit. Any member may read the feed.
func (h *activityHandlerImpl) ListActivity(ctx context.Context, q ListActivityQuery) ([]*domain.ActivityFeed, error) {
	if _, err := loadBoard(ctx, h.boardRepo, q.BoardID); err != nil {
		return nil, err
	}
	if _, err := h.perm.RequireMember(ctx, q.BoardID, q.UserID); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultActivityLimit
	}

	feeds, err := h.activityRepo.FindByBoardID(ctx, q.BoardID, q.AfterID, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list activity", err.Error())
	}
	return feeds, nil
}
