package dto

import (
	"time"

	"collab-board-api/internal/domain"
)

// AddMemberRequest adds a user to a board
type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// UpdateMemberRoleRequest changes a member's role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// MemberResponse is the public view of a board membership
type MemberResponse struct {
	BoardID   uint      `json:"board_id"`
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMemberResponse converts a membership model to its public view
func ToMemberResponse(m *domain.BoardMember) MemberResponse {
	return MemberResponse{
		BoardID:   m.BoardID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// ToMemberResponses converts a slice of membership models
func ToMemberResponses(members []*domain.BoardMember) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToMemberResponse(m))
	}
	return out
}
