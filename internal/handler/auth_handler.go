package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"collab-board-api/internal/domain"
	"collab-board-api/internal/dto"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/response"
	"collab-board-api/internal/token"
)

// AuthHandler serves registration, login and profile routes
type AuthHandler struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	logger   *zap.Logger
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(userRepo repository.UserRepository, tokens *token.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokens: tokens, logger: logger}
}

// Register creates a new account
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	existing, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		handleError(c, err)
		return
	}
	if existing != nil {
		response.SendError(c, http.StatusConflict, response.ErrCodeAlreadyExists, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		handleError(c, err)
		return
	}

	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		handleError(c, err)
		return
	}

	h.logger.Info("User registered", zap.Uint("user_id", user.ID))
	response.SendSuccess(c, http.StatusCreated, dto.ToUserResponse(user))
}

// Login exchanges credentials for an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid credentials")
			return
		}
		handleError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := h.tokens.Generate(user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToUserResponse(user))
}
