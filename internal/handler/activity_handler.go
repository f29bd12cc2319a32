package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collab-board-api/internal/dto"
	"collab-board-api/internal/query"
	"collab-board-api/internal/response"
)

// ActivityHandler serves the activity feed route
type ActivityHandler struct {
	queries query.ActivityHandler
}

// NewActivityHandler creates an ActivityHandler
func NewActivityHandler(queries query.ActivityHandler) *ActivityHandler {
	return &ActivityHandler{queries: queries}
}

// List handles GET /api/boards/:boardId/activity with optional after_id
// and limit cursor parameters.
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	var afterID uint64
	if raw := c.Query("after_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid after_id")
			return
		}
		afterID = v
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid limit")
			return
		}
		limit = v
	}

	feeds, err := h.queries.ListActivity(c.Request.Context(), query.ListActivityQuery{
		BoardID: boardID,
		UserID:  userID,
		AfterID: uint(afterID),
		Limit:   limit,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToActivityResponses(feeds))
}
