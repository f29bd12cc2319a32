package domain

// Structured audit payloads. Commands marshal these into the audit
// entry; the materializer unmarshals them when rendering messages.
// Old/new snapshots capture pre- and post-mutation state.

// BoardSnapshot is the audited view of a board's mutable fields
type BoardSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BoardChange carries before/after snapshots of a board update
type BoardChange struct {
	Old BoardSnapshot `json:"old"`
	New BoardSnapshot `json:"new"`
}

// CardSnapshot is the audited view of a card's mutable fields
type CardSnapshot struct {
	ID          uint    `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Position    float64 `json:"position"`
	IsComplete  bool    `json:"is_complete"`
	CreatedBy   uint    `json:"created_by,omitempty"`
}

// CardChange carries before/after snapshots of a card update
type CardChange struct {
	Old CardSnapshot `json:"old"`
	New CardSnapshot `json:"new"`
}

// MemberSnapshot is the audited view of a membership
type MemberSnapshot struct {
	BoardID uint      `json:"board_id"`
	UserID  uint      `json:"user_id"`
	Role    BoardRole `json:"role"`
}

// MemberRoleChange carries a membership role transition
type MemberRoleChange struct {
	BoardID uint      `json:"board_id"`
	UserID  uint      `json:"user_id"`
	OldRole BoardRole `json:"old_role"`
	NewRole BoardRole `json:"new_role"`
}
