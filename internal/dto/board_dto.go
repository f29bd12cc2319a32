package dto

import (
	"time"

	"collab-board-api/internal/domain"
)

// CreateBoardRequest creates a new board
type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateBoardRequest partially updates a board; omitted fields keep
// their current value.
type UpdateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// BoardResponse is the public view of a board
type BoardResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint      `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToBoardResponse converts a board model to its public view
func ToBoardResponse(b *domain.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToBoardResponses converts a slice of board models
func ToBoardResponses(boards []*domain.Board) []BoardResponse {
	out := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, ToBoardResponse(b))
	}
	return out
}
