// internal/handlers/category.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/urbanz/sabores-backend/internal/i18n"
	"github.com/urbanz/sabores-backend/internal/models"
	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// GET /api/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch categories")
		utils.SuccessResponse(c, gin.H{"categories": []models.Category{}})
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": categories})
}

// POST /api/categories
func (h *CategoryHandler) SaveCategories(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		Categories []services.CategoryInput `json:"categories" validate:"dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryInvalid), validationErrors)
		return
	}

	count, err := h.categoryService.SaveCategories(req.Categories)
	if err != nil {
		if errors.Is(err, services.ErrNoCategories) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryNoneGiven), nil)
			return
		}
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyCategorySaveFailed)+": "+err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategorySaved, count),
	})
}

// POST /api/categories/add
func (h *CategoryHandler) AddCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		Category services.CategoryInput `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryInvalid), err.Error())
		return
	}

	if req.Category.ID == "" || req.Category.Name == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryInvalid), nil)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req.Category)); len(validationErrors) > 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryInvalid), validationErrors)
		return
	}

	category, err := h.categoryService.AddCategory(req.Category)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryAdded, category.Name),
		"category": category,
	})
}

// DELETE /api/categories/:categoryId
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	categoryID := c.Param("categoryId")

	category, err := h.categoryService.DeleteCategory(categoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.NotFoundResponse(c, "category")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoryDeleted, category.Name),
	})
}
