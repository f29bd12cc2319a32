package command

import "collab-board-api/internal/domain"

// Commands are immutable intent values: the acting user, the target
// resource ids, and the new field values. Optional (pointer) fields
// mean "leave unchanged".

// CreateBoardCommand creates a board owned by the acting user
type CreateBoardCommand struct {
	UserID      uint
	Name        string
	Description string
}

// UpdateBoardCommand partially updates a board
type UpdateBoardCommand struct {
	BoardID     uint
	UserID      uint
	Name        *string
	Description *string
}

// DeleteBoardCommand deletes a board with its members and cards
type DeleteBoardCommand struct {
	BoardID uint
	UserID  uint
}

// CreateCardCommand creates a card on a board
type CreateCardCommand struct {
	BoardID     uint
	UserID      uint
	Title       string
	Description string
	Position    float64
}

// UpdateCardCommand partially updates a card
type UpdateCardCommand struct {
	CardID      uint
	BoardID     uint
	UserID      uint
	Title       *string
	Description *string
	Position    *float64
	IsComplete  *bool
}

// DeleteCardCommand deletes a card
type DeleteCardCommand struct {
	CardID  uint
	BoardID uint
	UserID  uint
}

// AddMemberCommand adds a membership with the given role
type AddMemberCommand struct {
	BoardID      uint
	ActorID      uint
	TargetUserID uint
	Role         domain.BoardRole
}

// UpdateMemberRoleCommand changes an existing membership's role
type UpdateMemberRoleCommand struct {
	BoardID      uint
	ActorID      uint
	TargetUserID uint
	NewRole      domain.BoardRole
}

// RemoveMemberCommand removes a membership
type RemoveMemberCommand struct {
	BoardID      uint
	ActorID      uint
	TargetUserID uint
}
