// internal/handlers/order.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/urbanz/sabores-backend/internal/i18n"
	"github.com/urbanz/sabores-backend/internal/services"
	"github.com/urbanz/sabores-backend/internal/utils"
)

type OrderHandler struct {
	orderService     *services.OrderService
	inventoryService *services.InventoryService
}

func NewOrderHandler(orderService *services.OrderService, inventoryService *services.InventoryService) *OrderHandler {
	return &OrderHandler{
		orderService:     orderService,
		inventoryService: inventoryService,
	}
}

// POST /api/orders/create-pix
func (h *OrderHandler) CreatePixOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInvalidItems), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.CreatePixOrder(c.Request.Context(), &req)
	if err != nil {
		respondGatewayError(c, lang, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyOrderCreated),
		"order_id":      order.ID,
		"txid":          order.TxID,
		"qr_code":       order.QRCode,
		"qr_code_image": order.QRCodeImage,
	})
}

// GET /api/orders/:id/status
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order id", nil)
		return
	}

	order, err := h.orderService.GetOrderStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "order")
			return
		}
		respondGatewayError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order_id":        order.ID,
		"payment_status":  order.PaymentStatus,
		"stock_processed": order.StockProcessed,
		"paid_at":         order.PaidAt,
	})
}

// POST /api/orders/update-stock
func (h *OrderHandler) UpdateStock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInvalidItems), err.Error())
		return
	}

	result := h.orderService.UpdateStock(&req)

	message := i18n.T(lang, i18n.KeyStockUpdated)
	if result.NeedsManualCheck {
		message = i18n.T(lang, i18n.KeyStockManualCheck)
	}

	utils.SuccessResponse(c, gin.H{
		"message":            message,
		"adjusted":           result.Adjusted,
		"needs_manual_check": result.NeedsManualCheck,
	})
}

// GET /api/orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListOrders(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order id", nil)
		return
	}

	order, err := h.orderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /api/stock/adjustments
func (h *OrderHandler) GetStockAdjustments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	productID := 0
	if idStr := c.Query("product_id"); idStr != "" {
		productID, _ = strconv.Atoi(idStr)
	}

	offset := (params.Page - 1) * params.Limit
	adjustments, total, err := h.inventoryService.ListAdjustments(productID, params.Limit, offset)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(adjustments, total, params))
}

func respondGatewayError(c *gin.Context, lang string, err error) {
	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) {
		utils.ErrorResponse(c, 500, "GATEWAY_ERROR", i18n.T(lang, gatewayErr.MessageKey), err.Error())
		return
	}
	utils.InternalErrorResponse(c, err.Error())
}
