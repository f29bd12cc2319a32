package activity

import (
	"encoding/json"
	"fmt"

	"collab-board-api/internal/domain"
)

// RenderMessage turns an audit entry into the human readable line shown
// in the activity feed. Unknown actions fall back to a generic line so a
// new audit action never breaks materialization.
func RenderMessage(audit *domain.AuditLog, actorName string) string {
	switch audit.Action {
	case domain.ActionBoardCreated:
		var snap domain.BoardSnapshot
		if err := json.Unmarshal(audit.Payload, &snap); err != nil {
			break
		}
		return fmt.Sprintf("%s created the board '%s', description: %s", actorName, snap.Name, snap.Description)

	case domain.ActionBoardUpdated:
		var change domain.BoardChange
		if err := json.Unmarshal(audit.Payload, &change); err != nil {
			break
		}
		return fmt.Sprintf("%s updated the board title '%s', description '%s' to '%s', description '%s'",
			actorName, change.Old.Name, change.Old.Description, change.New.Name, change.New.Description)

	case domain.ActionBoardDeleted:
		return fmt.Sprintf("%s deleted the board with id %d", actorName, audit.BoardID)

	case domain.ActionCardCreated:
		var snap domain.CardSnapshot
		if err := json.Unmarshal(audit.Payload, &snap); err != nil {
			break
		}
		return fmt.Sprintf("%s created the card with title: %s, description: %s", actorName, snap.Title, snap.Description)

	case domain.ActionCardUpdated:
		var change domain.CardChange
		if err := json.Unmarshal(audit.Payload, &change); err != nil {
			break
		}
		return fmt.Sprintf("%s updated the card title: %s, desc: %s, position: %g to title: %s, desc: %s, position: %g",
			actorName, change.Old.Title, change.Old.Description, change.Old.Position,
			change.New.Title, change.New.Description, change.New.Position)

	case domain.ActionCardDeleted:
		return fmt.Sprintf("%s removed a card from board %d", actorName, audit.BoardID)

	case domain.ActionMemberAdded:
		var snap domain.MemberSnapshot
		if err := json.Unmarshal(audit.Payload, &snap); err != nil {
			break
		}
		return fmt.Sprintf("%s added user %d to board %d with role %s", actorName, snap.UserID, snap.BoardID, snap.Role)

	case domain.ActionMemberRemoved:
		var snap domain.MemberSnapshot
		if err := json.Unmarshal(audit.Payload, &snap); err != nil {
			break
		}
		return fmt.Sprintf("%s removed user %d from board %d", actorName, snap.UserID, snap.BoardID)

	case domain.ActionMemberRoleChanged:
		var change domain.MemberRoleChange
		if err := json.Unmarshal(audit.Payload, &change); err != nil {
			break
		}
		return fmt.Sprintf("%s changed role of user %d on board %d from %s to %s",
			actorName, change.UserID, change.BoardID, change.OldRole, change.NewRole)
	}

	return fmt.Sprintf("%s performed an action", actorName)
}
