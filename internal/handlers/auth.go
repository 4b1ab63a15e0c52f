// internal/handlers/auth.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/urbanz/sabores-backend/internal/i18n"
	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthMissingFields), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthMissingFields), validationErrors)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"token":   resp.Token,
		"user":    gin.H{"username": resp.Username},
	})
}

// GET /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	if token != "" && h.authService.VerifyToken(token) {
		utils.SuccessResponse(c, gin.H{
			"valid": true,
			"user":  gin.H{"username": "admin"},
		})
		return
	}

	utils.SuccessResponse(c, gin.H{"valid": false})
}
