package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/service"
)

// AdminHandler handles admin authentication requests
type AdminHandler struct {
	tokenService *service.TokenService
	logger       *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(tokenService *service.TokenService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		tokenService: tokenService,
		logger:       logger,
	}
}

// LoginRequest represents the admin login request body
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login exchanges the admin password for a token pair
// POST /v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	tokens, err := h.tokenService.Login(c.Request.Context(), req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Refresh rotates a refresh token
// POST /v1/admin/refresh
func (h *AdminHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	tokens, err := h.tokenService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}
