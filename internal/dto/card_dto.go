package dto

import (
	"time"

	"collab-board-api/internal/domain"
)

// CreateCardRequest creates a new card on a board
type CreateCardRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Position    float64 `json:"position"`
}

// UpdateCardRequest partially updates a card; omitted fields keep
// their current value.
type UpdateCardRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Position    *float64 `json:"position"`
	IsComplete  *bool    `json:"is_complete"`
}

// CardResponse is the public view of a card
type CardResponse struct {
	ID          uint      `json:"id"`
	BoardID     uint      `json:"board_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    float64   `json:"position"`
	IsComplete  bool      `json:"is_complete"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCardResponse converts a card model to its public view
func ToCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:          card.ID,
		BoardID:     card.BoardID,
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		IsComplete:  card.IsComplete,
		CreatedBy:   card.CreatedBy,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}

// ToCardResponses converts a slice of card models
func ToCardResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, ToCardResponse(card))
	}
	return out
}
