// internal/handlers/product.go
package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/urbanz/sabores-backend/internal/i18n"
	"github.com/urbanz/sabores-backend/internal/models"
	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
	cacheTTL       int
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService, cacheTTLSeconds int) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
		cacheTTL:       cacheTTLSeconds,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", h.cacheTTL))
	c.Header("X-Content-Type-Options", "nosniff")

	products, err := h.productService.ListProducts()
	if err != nil {
		// Storefront reads degrade to an empty catalog instead of failing.
		logrus.WithError(err).Error("Failed to fetch products")
		utils.SuccessResponse(c, gin.H{"products": []models.Product{}})
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

// POST /api/products
func (h *ProductHandler) SaveProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		Products []services.ProductInput `json:"products"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	count, err := h.productService.SaveProducts(req.Products)
	if err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyProductsSaveFail)+": "+err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductsSaved, count),
	})
}

// POST /api/products/upload-image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "image file is required", err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"image": result})
}
