package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityFeed is the rendered, user-facing projection of one audit
// entry. Created by the materializer, never mutated. The id is the
// per-board delivery cursor used by the bridge listener to dedupe.
type ActivityFeed struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID      uint           `gorm:"not null;index:idx_activity_feeds_board_id" json:"board_id"`
	ActorID      uint           `gorm:"not null" json:"actor_id"`
	ActivityType AuditAction    `gorm:"type:varchar(32);not null" json:"activity_type"`
	Message      string         `gorm:"type:text;not null" json:"message"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for ActivityFeed
func (ActivityFeed) TableName() string {
	return "activity_feeds"
}
