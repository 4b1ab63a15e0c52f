// internal/handlers/cache.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanz/sabores-backend/internal/cache"
	"github.com/urbanz/sabores-backend/internal/i18n"
	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

type CacheHandler struct {
	cache          *cache.ProductCache
	productService *services.ProductService
}

func NewCacheHandler(productCache *cache.ProductCache, productService *services.ProductService) *CacheHandler {
	return &CacheHandler{
		cache:          productCache,
		productService: productService,
	}
}

// POST /api/cache/clear
func (h *CacheHandler) Clear(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	h.cache.Invalidate()

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCacheCleared),
	})
}

// POST /api/cache/refresh
func (h *CacheHandler) Refresh(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	products, err := h.productService.RefreshCache()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCacheRefreshed),
		"products": len(products),
	})
}
