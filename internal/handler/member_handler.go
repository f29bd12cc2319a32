package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-board-api/internal/command"
	"collab-board-api/internal/domain"
	"collab-board-api/internal/dto"
	"collab-board-api/internal/metrics"
	"collab-board-api/internal/query"
	"collab-board-api/internal/response"
)

// MemberHandler serves board membership routes
type MemberHandler struct {
	commands command.MemberHandler
	queries  query.BoardHandler
	metrics  *metrics.Metrics
}

// NewMemberHandler creates a MemberHandler
func NewMemberHandler(commands command.MemberHandler, queries query.BoardHandler, m *metrics.Metrics) *MemberHandler {
	return &MemberHandler{commands: commands, queries: queries, metrics: m}
}

// Add handles POST /api/boards/:boardId/members
func (h *MemberHandler) Add(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.commands.AddMember(c.Request.Context(), command.AddMemberCommand{
		BoardID:      boardID,
		ActorID:      userID,
		TargetUserID: req.UserID,
		Role:         domain.BoardRole(req.Role),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionMemberAdded))
	response.SendSuccess(c, http.StatusCreated, dto.ToMemberResponse(member))
}

// List handles GET /api/boards/:boardId/members
func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	members, err := h.queries.ListMembers(c.Request.Context(), query.ListMembersQuery{
		BoardID: boardID,
		UserID:  userID,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToMemberResponses(members))
}

// UpdateRole handles PATCH /api/boards/:boardId/members/:userId
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.commands.UpdateMemberRole(c.Request.Context(), command.UpdateMemberRoleCommand{
		BoardID:      boardID,
		ActorID:      userID,
		TargetUserID: targetID,
		NewRole:      domain.BoardRole(req.Role),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionMemberRoleChanged))
	response.SendSuccess(c, http.StatusOK, dto.ToMemberResponse(member))
}

// Remove handles DELETE /api/boards/:boardId/members/:userId
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.commands.RemoveMember(c.Request.Context(), command.RemoveMemberCommand{
		BoardID:      boardID,
		ActorID:      userID,
		TargetUserID: targetID,
	}); err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionMemberRemoved))
	c.Status(http.StatusNoContent)
}
