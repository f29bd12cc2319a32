package command

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/response"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Board{},
		&domain.BoardMember{},
		&domain.Card{},
		&domain.AuditLog{},
		&domain.ActivityFeed{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func addMember(t *testing.T, db *gorm.DB, boardID, userID uint, role domain.BoardRole) {
	t.Helper()
	require.NoError(t, db.Create(&domain.BoardMember{BoardID: boardID, UserID: userID, Role: role}).Error)
}

// recordingSubmitter captures submitted audit ids; Full simulates a
// saturated queue.
type recordingSubmitter struct {
	ids  []uint
	full bool
}

func (s *recordingSubmitter) Submit(auditID uint) bool {
	if s.full {
		return false
	}
	s.ids = append(s.ids, auditID)
	return true
}

func auditsFor(t *testing.T, db *gorm.DB, boardID uint) []*domain.AuditLog {
	t.Helper()
	var entries []*domain.AuditLog
	require.NoError(t, db.Where("board_id = ?", boardID).Order("id ASC").Find(&entries).Error)
	return entries
}

func requireAppError(t *testing.T, err error, code string) *response.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func decodePayload(t *testing.T, entry *domain.AuditLog, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(entry.Payload, v))
}

func newTestBoard(t *testing.T, db *gorm.DB, sub ActivitySubmitter, owner *domain.User) *domain.Board {
	t.Helper()
	h := NewBoardHandler(db, sub, zap.NewNop())
	board, err := h.CreateBoard(context.Background(), CreateBoardCommand{
		UserID:      owner.ID,
		Name:        "Test Board",
		Description: "a board",
	})
	require.NoError(t, err)
	return board
}
