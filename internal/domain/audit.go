package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction identifies the kind of mutation an audit entry records
type AuditAction string

const (
	ActionBoardCreated      AuditAction = "BOARD_CREATED"
	ActionBoardUpdated      AuditAction = "BOARD_UPDATED"
	ActionBoardDeleted      AuditAction = "BOARD_DELETED"
	ActionCardCreated       AuditAction = "CARD_CREATED"
	ActionCardUpdated       AuditAction = "CARD_UPDATED"
	ActionCardDeleted       AuditAction = "CARD_DELETED"
	ActionMemberAdded       AuditAction = "MEMBER_ADDED"
	ActionMemberRemoved     AuditAction = "MEMBER_REMOVED"
	ActionMemberRoleChanged AuditAction = "MEMBER_ROLE_CHANGED"
)

// AuditLog is an immutable record of one accepted mutation. Rows are
// appended in the same transaction as the mutation and never updated
// or deleted; the table is the single source of truth for what happened.
// Board ids are referenced by value, so deleting a board keeps its history.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   uint           `gorm:"not null;index:idx_audit_logs_actor_id" json:"actor_id"`
	BoardID   uint           `gorm:"not null;index:idx_audit_logs_board_id" json:"board_id"`
	Action    AuditAction    `gorm:"type:varchar(32);not null" json:"action"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
