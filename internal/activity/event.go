package activity

import (
	"encoding/json"
	"time"

	"collab-board-api/internal/domain"
)

// Event is the wire form of one activity entry pushed to realtime
// subscribers. ID carries the feed row id so consumers can dedup.
type Event struct {
	Type         string    `json:"type"`
	ID           uint      `json:"id"`
	BoardID      uint      `json:"board_id"`
	ActorID      uint      `json:"actor_id"`
	ActivityType string    `json:"activity_type"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEvent builds the wire event for a persisted feed entry
func NewEvent(feed *domain.ActivityFeed) Event {
	return Event{
		Type:         "activity",
		ID:           feed.ID,
		BoardID:      feed.BoardID,
		ActorID:      feed.ActorID,
		ActivityType: string(feed.ActivityType),
		Message:      feed.Message,
		CreatedAt:    feed.CreatedAt,
	}
}

// Encode serializes the event for the notification channel
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
