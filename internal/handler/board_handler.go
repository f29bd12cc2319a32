package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collab-board-api/internal/command"
	"collab-board-api/internal/domain"
	"collab-board-api/internal/dto"
	"collab-board-api/internal/metrics"
	"collab-board-api/internal/query"
	"collab-board-api/internal/response"
)

// BoardHandler serves board CRUD and membership listing routes
type BoardHandler struct {
	commands command.BoardHandler
	queries  query.BoardHandler
	metrics  *metrics.Metrics
}

// NewBoardHandler creates a BoardHandler
func NewBoardHandler(commands command.BoardHandler, queries query.BoardHandler, m *metrics.Metrics) *BoardHandler {
	return &BoardHandler{commands: commands, queries: queries, metrics: m}
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /api/boards
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.commands.CreateBoard(c.Request.Context(), command.CreateBoardCommand{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementBoardCreated()
	h.metrics.IncrementAuditAppended(string(domain.ActionBoardCreated))
	response.SendSuccess(c, http.StatusCreated, dto.ToBoardResponse(board))
}

// Get handles GET /api/boards/:boardId
func (h *BoardHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	board, err := h.queries.GetBoard(c.Request.Context(), query.GetBoardQuery{
		BoardID: boardID,
		UserID:  userID,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToBoardResponse(board))
}

// List handles GET /api/boards. With ?scope=member it returns every
// board the user can access, otherwise only owned boards.
func (h *BoardHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if c.Query("scope") == "member" {
		boards, err := h.queries.ListAccessibleBoards(c.Request.Context(), query.ListAccessibleBoardsQuery{UserID: userID})
		if err != nil {
			handleError(c, err)
			return
		}
		response.SendSuccess(c, http.StatusOK, dto.ToBoardResponses(boards))
		return
	}

	boards, err := h.queries.ListMyBoards(c.Request.Context(), query.ListMyBoardsQuery{UserID: userID})
	if err != nil {
		handleError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.ToBoardResponses(boards))
}

// Update handles PATCH /api/boards/:boardId
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.commands.UpdateBoard(c.Request.Context(), command.UpdateBoardCommand{
		BoardID:     boardID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionBoardUpdated))
	response.SendSuccess(c, http.StatusOK, dto.ToBoardResponse(board))
}

// Delete handles DELETE /api/boards/:boardId
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	if err := h.commands.DeleteBoard(c.Request.Context(), command.DeleteBoardCommand{
		BoardID: boardID,
		UserID:  userID,
	}); err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionBoardDeleted))
	c.Status(http.StatusNoContent)
}
