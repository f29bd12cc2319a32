package domain

// Board is the top-level shared resource. It exclusively owns its
// memberships and cards; deleting a board cascades to both.
type Board struct {
	BaseModel
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	OwnerID     uint          `gorm:"not null;index:idx_boards_owner_id" json:"owner_id"`
	Members     []BoardMember `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Cards       []Card        `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// BoardRole represents the role of a board member
type BoardRole string

const (
	RoleOwner  BoardRole = "owner"
	RoleEditor BoardRole = "editor"
	RoleViewer BoardRole = "viewer"
)

// Valid reports whether the role is one of the known board roles.
func (r BoardRole) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// BoardMember is a (board, user, role) authorization record.
// Exactly one owner membership exists per board, created atomically
// with the board itself and never reachable through the member APIs.
type BoardMember struct {
	BaseModel
	BoardID uint      `gorm:"not null;index:idx_board_members_board_id;uniqueIndex:uq_board_members_board_user" json:"board_id"`
	UserID  uint      `gorm:"not null;index:idx_board_members_user_id;uniqueIndex:uq_board_members_board_user" json:"user_id"`
	Role    BoardRole `gorm:"type:varchar(16);not null;default:'editor'" json:"role"`
}

// TableName specifies the table name for BoardMember
func (BoardMember) TableName() string {
	return "board_members"
}
