package command

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/metrics"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
)

// ActivitySubmitter hands a committed audit entry to the materializer.
// Submission is fire-and-forget: the request path awaits submission,
// never delivery. Returns false when the entry could not be queued.
type ActivitySubmitter interface {
	Submit(auditID uint) bool
}

// NopSubmitter discards submissions; used where no materializer runs.
type NopSubmitter struct{}

// Submit implements ActivitySubmitter
func (NopSubmitter) Submit(uint) bool { return true }

// MeteredSubmitter wraps a submitter and counts dropped submissions
type MeteredSubmitter struct {
	Inner   ActivitySubmitter
	Metrics *metrics.Metrics
}

// Submit implements ActivitySubmitter
func (s MeteredSubmitter) Submit(auditID uint) bool {
	ok := s.Inner.Submit(auditID)
	if !ok {
		s.Metrics.IncrementActivityQueueDropped()
	}
	return ok
}

// appendAudit writes the audit entry inside the caller's transaction so
// the mutation and its record commit or roll back together.
func appendAudit(ctx context.Context, tx *gorm.DB, actorID, boardID uint, action domain.AuditAction, payload interface{}) (*domain.AuditLog, error) {
	entry := &domain.AuditLog{
		ActorID: actorID,
		BoardID: boardID,
		Action:  action,
		Payload: marshalPayload(payload),
	}
	if err := repository.NewAuditRepository(tx).Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func marshalPayload(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func internalError(message string, err error) *response.AppError {
	return response.NewAppError(response.ErrCodeInternal, message, err.Error())
}
