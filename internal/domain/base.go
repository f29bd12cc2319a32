package domain

import "time"

// BaseModel holds the fields shared by all persisted entities.
// Primary keys are auto-increment integers; the audit and activity
// sequences double as monotonic delivery cursors.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
