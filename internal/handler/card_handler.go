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

// CardHandler serves card CRUD routes scoped under a board
type CardHandler struct {
	commands command.CardHandler
	queries  query.CardHandler
	metrics  *metrics.Metrics
}

// NewCardHandler creates a CardHandler
func NewCardHandler(commands command.CardHandler, queries query.CardHandler, m *metrics.Metrics) *CardHandler {
	return &CardHandler{commands: commands, queries: queries, metrics: m}
}

// Create handles POST /api/boards/:boardId/cards
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.commands.CreateCard(c.Request.Context(), command.CreateCardCommand{
		BoardID:     boardID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementCardCreated()
	h.metrics.IncrementAuditAppended(string(domain.ActionCardCreated))
	response.SendSuccess(c, http.StatusCreated, dto.ToCardResponse(card))
}

// Get handles GET /api/boards/:boardId/cards/:cardId
func (h *CardHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		return
	}

	card, err := h.queries.GetCard(c.Request.Context(), query.GetCardQuery{
		CardID:  cardID,
		BoardID: boardID,
		UserID:  userID,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToCardResponse(card))
}

// List handles GET /api/boards/:boardId/cards
func (h *CardHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}

	cards, err := h.queries.ListCards(c.Request.Context(), query.ListCardsQuery{
		BoardID: boardID,
		UserID:  userID,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToCardResponses(cards))
}

// Update handles PATCH /api/boards/:boardId/cards/:cardId
func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.commands.UpdateCard(c.Request.Context(), command.UpdateCardCommand{
		CardID:      cardID,
		BoardID:     boardID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		IsComplete:  req.IsComplete,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionCardUpdated))
	response.SendSuccess(c, http.StatusOK, dto.ToCardResponse(card))
}

// Delete handles DELETE /api/boards/:boardId/cards/:cardId
func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId")
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		return
	}

	if err := h.commands.DeleteCard(c.Request.Context(), command.DeleteCardCommand{
		CardID:  cardID,
		BoardID: boardID,
		UserID:  userID,
	}); err != nil {
		handleError(c, err)
		return
	}

	h.metrics.IncrementAuditAppended(string(domain.ActionCardDeleted))
	c.Status(http.StatusNoContent)
}
