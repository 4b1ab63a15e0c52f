// internal/handlers/debug.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanz/sabores-backend/internal/models"
	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

// DebugHandler exposes raw records for the admin panel's troubleshooting
// pages.
type DebugHandler struct {
	categoryService *services.CategoryService
	authService     *services.AuthService
}

func NewDebugHandler(categoryService *services.CategoryService, authService *services.AuthService) *DebugHandler {
	return &DebugHandler{
		categoryService: categoryService,
		authService:     authService,
	}
}

// GET /api/debug/categories
func (h *DebugHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		utils.SuccessResponse(c, gin.H{"categories": []models.Category{}, "error": err.Error()})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GET /api/debug/credentials
func (h *DebugHandler) GetCredentials(c *gin.Context) {
	credentials, err := h.authService.ListCredentials()
	if err != nil {
		utils.SuccessResponse(c, gin.H{"credentials": []models.AdminCredential{}, "error": err.Error()})
		return
	}

	// Usernames and timestamps only; password columns never leave the server.
	usernames := make([]gin.H, 0, len(credentials))
	for _, cred := range credentials {
		usernames = append(usernames, gin.H{
			"username":   cred.Username,
			"has_hash":   cred.HasHash(),
			"created_at": cred.CreatedAt,
		})
	}

	utils.SuccessResponse(c, gin.H{
		"credentials": usernames,
		"count":       len(usernames),
	})
}

// GET /api/debug/encrypt/:text
//
// Round-trips the legacy obfuscation so old stored values can be checked by
// hand during credential migration.
func (h *DebugHandler) EncryptRoundTrip(c *gin.Context) {
	text := c.Param("text")
	encrypted := utils.LegacyEncrypt(text)
	decrypted, _ := utils.LegacyDecrypt(encrypted)

	utils.SuccessResponse(c, gin.H{
		"original":  text,
		"encrypted": encrypted,
		"decrypted": decrypted,
	})
}
