package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/response"
)

func TestAddMember_OwnerAddsEditor(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	target := createUser(t, db, "bob")
	board := newTestBoard(t, db, sub, owner)
	h := NewMemberHandler(db, sub, zap.NewNop())

	member, err := h.AddMember(context.Background(), AddMemberCommand{
		BoardID:      board.ID,
		ActorID:      owner.ID,
		TargetUserID: target.ID,
		Role:         domain.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, member.Role)

	entries := auditsFor(t, db, board.ID)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.ActionMemberAdded, last.Action)

	var snap domain.MemberSnapshot
	decodePayload(t, last, &snap)
	assert.Equal(t, target.ID, snap.UserID)
	assert.Equal(t, domain.RoleEditor, snap.Role)
}

func TestAddMember_OwnerRoleRejected(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	target := createUser(t, db, "bob")
	board := newTestBoard(t, db, sub, owner)
	h := NewMemberHandler(db, sub, zap.NewNop())

	_, err := h.AddMember(context.Background(), AddMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID, Role: domain.RoleOwner,
	})
	requireAppError(t, err, response.ErrCodeInvalidRole)

	_, err = h.AddMember(context.Background(), AddMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID, Role: "admin",
	})
	requireAppError(t, err, response.ErrCodeValidation)
}

func TestAddMember_DuplicateRejected(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	target := createUser(t, db, "bob")
	board := newTestBoard(t, db, sub, owner)
	h := NewMemberHandler(db, sub, zap.NewNop())

	_, err := h.AddMember(context.Background(), AddMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID, Role: domain.RoleViewer,
	})
	require.NoError(t, err)

	_, err = h.AddMember(context.Background(), AddMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID, Role: domain.RoleEditor,
	})
	requireAppError(t, err, response.ErrCodeAlreadyExists)

	// role unchanged by the rejected add
	var member domain.BoardMember
	require.NoError(t, db.Where("board_id = ? AND user_id = ?", board.ID, target.ID).First(&member).Error)
	assert.Equal(t, domain.RoleViewer, member.Role)
}

func TestAddMember_NonOwnerForbidden(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	editor := createUser(t, db, "bob")
	target := createUser(t, db, "carol")
	board := newTestBoard(t, db, sub, owner)
	addMember(t, db, board.ID, editor.ID, domain.RoleEditor)
	h := NewMemberHandler(db, sub, zap.NewNop())

	_, err := h.AddMember(context.Background(), AddMemberCommand{
		BoardID: board.ID, ActorID: editor.ID, TargetUserID: target.ID, Role: domain.RoleViewer,
	})
	requireAppError(t, err, response.ErrCodeForbidden)
}

func TestUpdateMemberRole_TransitionsAndProtectsOwner(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	target := createUser(t, db, "bob")
	board := newTestBoard(t, db, sub, owner)
	addMember(t, db, board.ID, target.ID, domain.RoleViewer)
	h := NewMemberHandler(db, sub, zap.NewNop())

	member, err := h.UpdateMemberRole(context.Background(), UpdateMemberRoleCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID, NewRole: domain.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, member.Role)

	entries := auditsFor(t, db, board.ID)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.ActionMemberRoleChanged, last.Action)

	var change domain.MemberRoleChange
	decodePayload(t, last, &change)
	assert.Equal(t, domain.RoleViewer, change.OldRole)
	assert.Equal(t, domain.RoleEditor, change.NewRole)

	// the owner membership is out of reach
	_, err = h.UpdateMemberRole(context.Background(), UpdateMemberRoleCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: owner.ID, NewRole: domain.RoleViewer,
	})
	requireAppError(t, err, response.ErrCodeInvalidOperation)

	// promoting to owner is rejected outright
	_, err = h.UpdateMemberRole(context.Background(), UpdateMemberRoleCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID, NewRole: domain.RoleOwner,
	})
	requireAppError(t, err, response.ErrCodeInvalidRole)
}

func TestRemoveMember_ProtectsOwner(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	target := createUser(t, db, "bob")
	board := newTestBoard(t, db, sub, owner)
	addMember(t, db, board.ID, target.ID, domain.RoleEditor)
	h := NewMemberHandler(db, sub, zap.NewNop())

	err := h.RemoveMember(context.Background(), RemoveMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: owner.ID,
	})
	requireAppError(t, err, response.ErrCodeInvalidOperation)

	require.NoError(t, h.RemoveMember(context.Background(), RemoveMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: target.ID,
	}))

	var count int64
	db.Model(&domain.BoardMember{}).Where("board_id = ? AND user_id = ?", board.ID, target.ID).Count(&count)
	assert.Zero(t, count)

	entries := auditsFor(t, db, board.ID)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.ActionMemberRemoved, last.Action)

	var snap domain.MemberSnapshot
	decodePayload(t, last, &snap)
	assert.Equal(t, domain.RoleEditor, snap.Role)
}

func TestRemoveMember_UnknownMemberNotFound(t *testing.T) {
	db := setupDB(t)
	sub := &recordingSubmitter{}
	owner := createUser(t, db, "alice")
	stranger := createUser(t, db, "mallory")
	board := newTestBoard(t, db, sub, owner)
	h := NewMemberHandler(db, sub, zap.NewNop())

	err := h.RemoveMember(context.Background(), RemoveMemberCommand{
		BoardID: board.ID, ActorID: owner.ID, TargetUserID: stranger.ID,
	})
	requireAppError(t, err, response.ErrCodeNotFound)
}
