package command

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/permission"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
)

// MemberHandler processes membership mutation commands. All operations
// are owner-only, and the owner role itself is out of reach: it can
// neither be granted nor removed here, so a board can never end up
// without exactly one owner.
type MemberHandler interface {
	AddMember(ctx context.Context, cmd AddMemberCommand) (*domain.BoardMember, error)
	UpdateMemberRole(ctx context.Context, cmd UpdateMemberRoleCommand) (*domain.BoardMember, error)
	RemoveMember(ctx context.Context, cmd RemoveMemberCommand) error
}

type memberHandlerImpl struct {
	db        *gorm.DB
	submitter ActivitySubmitter
	logger    *zap.Logger
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(db *gorm.DB, submitter ActivitySubmitter, logger *zap.Logger) MemberHandler {
	return &memberHandlerImpl{db: db, submitter: submitter, logger: logger}
}

// AddMember adds a membership with role editor or viewer
func (h *memberHandlerImpl) AddMember(ctx context.Context, cmd AddMemberCommand) (*domain.BoardMember, error) {
	if cmd.Role == domain.RoleOwner {
		return nil, response.NewAppError(response.ErrCodeInvalidRole, "Owner role cannot be assigned", "")
	}
	if !cmd.Role.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown role", string(cmd.Role))
	}

	var member *domain.BoardMember
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := repository.NewMemberRepository(tx)
		perm := permission.NewService(memberRepo)
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.ActorID, domain.RoleOwner); err != nil {
			return err
		}

		existing, err := memberRepo.FindByBoardAndUser(ctx, cmd.BoardID, cmd.TargetUserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return response.NewAppError(response.ErrCodeAlreadyExists, "User is already a board member", "")
		}

		member = &domain.BoardMember{
			BoardID: cmd.BoardID,
			UserID:  cmd.TargetUserID,
			Role:    cmd.Role,
		}
		if err := memberRepo.Create(ctx, member); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.ActorID, cmd.BoardID, domain.ActionMemberAdded, domain.MemberSnapshot{
			BoardID: cmd.BoardID,
			UserID:  cmd.TargetUserID,
			Role:    cmd.Role,
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, internalError("Failed to add member", err)
	}

	h.submitAudit(entry)
	return member, nil
}

// UpdateMemberRole changes a membership's role between editor and viewer.
// Promoting to owner and demoting the owner are both rejected.
func (h *memberHandlerImpl) UpdateMemberRole(ctx context.Context, cmd UpdateMemberRoleCommand) (*domain.BoardMember, error) {
	if cmd.NewRole == domain.RoleOwner {
		return nil, response.NewAppError(response.ErrCodeInvalidRole, "Owner role cannot be assigned", "")
	}
	if !cmd.NewRole.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown role", string(cmd.NewRole))
	}

	var member *domain.BoardMember
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := repository.NewMemberRepository(tx)
		perm := permission.NewService(memberRepo)
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.ActorID, domain.RoleOwner); err != nil {
			return err
		}

		var err error
		member, err = memberRepo.FindByBoardAndUser(ctx, cmd.BoardID, cmd.TargetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
			}
			return err
		}
		if member.Role == domain.RoleOwner {
			return response.NewAppError(response.ErrCodeInvalidOperation, "Owner role cannot be changed", "")
		}

		oldRole := member.Role
		member.Role = cmd.NewRole
		if err := memberRepo.Update(ctx, member); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.ActorID, cmd.BoardID, domain.ActionMemberRoleChanged, domain.MemberRoleChange{
			BoardID: cmd.BoardID,
			UserID:  cmd.TargetUserID,
			OldRole: oldRole,
			NewRole: cmd.NewRole,
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, internalError("Failed to update member role", err)
	}

	h.submitAudit(entry)
	return member, nil
}

// RemoveMember removes a membership; removing the owner is rejected.
func (h *memberHandlerImpl) RemoveMember(ctx context.Context, cmd RemoveMemberCommand) error {
	var entry *domain.AuditLog

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := repository.NewMemberRepository(tx)
		perm := permission.NewService(memberRepo)
		if _, err := perm.RequireRole(ctx, cmd.BoardID, cmd.ActorID, domain.RoleOwner); err != nil {
			return err
		}

		member, err := memberRepo.FindByBoardAndUser(ctx, cmd.BoardID, cmd.TargetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
			}
			return err
		}
		if member.Role == domain.RoleOwner {
			return response.NewAppError(response.ErrCodeInvalidOperation, "Owner cannot be removed", "")
		}

		if err := memberRepo.Delete(ctx, cmd.BoardID, cmd.TargetUserID); err != nil {
			return err
		}

		entry, err = appendAudit(ctx, tx, cmd.ActorID, cmd.BoardID, domain.ActionMemberRemoved, domain.MemberSnapshot{
			BoardID: cmd.BoardID,
			UserID:  cmd.TargetUserID,
			Role:    member.Role,
		})
		return err
	})
	if err != nil {
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return internalError("Failed to remove member", err)
	}

	h.submitAudit(entry)
	return nil
}

func (h *memberHandlerImpl) submitAudit(entry *domain.AuditLog) {
	if entry == nil {
		return
	}
	if !h.submitter.Submit(entry.ID) {
		h.logger.Warn("Activity submission dropped, queue full",
			zap.Uint("audit_id", entry.ID),
			zap.Uint("board_id", entry.BoardID),
		)
	}
}
