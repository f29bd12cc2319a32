package permission

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
)

// Service evaluates whether a user holds a sufficient role on a board.
// Checks are pure reads; every command and query handler that touches
// board-owned data calls one of these before reading or writing.
type Service interface {
	RequireMember(ctx context.Context, boardID, userID uint) (*domain.BoardMember, error)
	RequireRole(ctx context.Context, boardID, userID uint, allowed ...domain.BoardRole) (*domain.BoardMember, error)
}

type serviceImpl struct {
	memberRepo repository.MemberRepository
}

// NewService creates a new permission Service
func NewService(memberRepo repository.MemberRepository) Service {
	return &serviceImpl{memberRepo: memberRepo}
}

// RequireMember fails with FORBIDDEN unless the user holds any membership
// on the board. A user with no membership row is never implicitly a member.
func (s *serviceImpl) RequireMember(ctx context.Context, boardID, userID uint) (*domain.BoardMember, error) {
	member, err := s.memberRepo.FindByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeForbidden, "Not a board member", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	return member, nil
}

// RequireRole fails with FORBIDDEN unless the user's membership carries
// one of the allowed roles.
func (s *serviceImpl) RequireRole(ctx context.Context, boardID, userID uint, allowed ...domain.BoardRole) (*domain.BoardMember, error) {
	member, err := s.RequireMember(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	for _, role := range allowed {
		if member.Role == role {
			return member, nil
		}
	}
	return nil, response.NewAppError(response.ErrCodeForbidden, "Insufficient permissions", "")
}
