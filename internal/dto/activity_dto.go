package dto

import (
	"time"

	"collab-board-api/internal/domain"
)

// ActivityResponse is the public view of one activity feed entry
type ActivityResponse struct {
	ID           uint      `json:"id"`
	BoardID      uint      `json:"board_id"`
	ActorID      uint      `json:"actor_id"`
	ActivityType string    `json:"activity_type"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToActivityResponse converts a feed entry to its public view
func ToActivityResponse(f *domain.ActivityFeed) ActivityResponse {
	return ActivityResponse{
		ID:           f.ID,
		BoardID:      f.BoardID,
		ActorID:      f.ActorID,
		ActivityType: string(f.ActivityType),
		Message:      f.Message,
		CreatedAt:    f.CreatedAt,
	}
}

// ToActivityResponses converts a slice of feed entries
func ToActivityResponses(feeds []*domain.ActivityFeed) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, ToActivityResponse(f))
	}
	return out
}
