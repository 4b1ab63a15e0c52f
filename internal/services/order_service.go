// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/urbanz/sabores-backend/internal/models"
	"github.com/urbanz/sabores-backend/internal/utils"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService glues the three reconciliation entry points together: direct
// stock update, payment-status poll and gateway webhook. Orders complete at
// most once; the stock_processed flag is flipped with a conditional update
// so poll and webhook cannot both decrement the same order.
type OrderService struct {
	db        *gorm.DB
	pix       *PixService
	inventory *InventoryService
}

type CreateOrderRequest struct {
	Items    []models.OrderItem     `json:"items" validate:"required,min=1"`
	Customer map[string]interface{} `json:"customer"`
	Total    float64                `json:"total" validate:"required,gt=0"`
}

type UpdateStockRequest struct {
	Items []models.OrderItem `json:"items" validate:"required"`
}

type UpdateStockResult struct {
	Adjusted         int  `json:"adjusted"`
	NeedsManualCheck bool `json:"needs_manual_check"`
}

func NewOrderService(db *gorm.DB, pix *PixService, inventory *InventoryService) *OrderService {
	return &OrderService{
		db:        db,
		pix:       pix,
		inventory: inventory,
	}
}

// CreatePixOrder creates the gateway charge and persists the pending order
// with its QR payload.
func (s *OrderService) CreatePixOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	items := FilterValidItems(req.Items)
	if len(items) == 0 {
		return nil, errors.New("order has no valid items")
	}

	payerName, _ := req.Customer["name"].(string)
	charge, err := s.pix.CreateCharge(ctx, req.Total, payerName)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:            uuid.New(),
		Items:         items,
		Customer:      models.JSONB(req.Customer),
		Total:         req.Total,
		TxID:          charge.TxID,
		LocationID:    charge.LocationID,
		QRCode:        charge.QRCode,
		QRCodeImage:   charge.QRCodeImage,
		PaymentStatus: models.PaymentStatusPending,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return order, nil
}

// GetOrderStatus polls the gateway for a pending order and completes it on a
// transition into the paid state. Completed orders answer from the database
// without a gateway round trip.
func (s *OrderService) GetOrderStatus(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		return &order, nil
	}

	status, err := s.pix.GetChargeStatus(ctx, order.TxID)
	if err != nil {
		return nil, err
	}

	if IsPaid(status) {
		if err := s.completeOrder(&order); err != nil {
			return nil, err
		}
	}

	return &order, nil
}

// HandleWebhook processes a gateway push for one transaction. Unknown txids
// are ignored: the gateway also notifies about charges created elsewhere.
func (s *OrderService) HandleWebhook(txid string) error {
	var order models.Order
	if err := s.db.First(&order, "tx_id = ?", txid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("txid", txid).Info("Webhook for unknown transaction, ignoring")
			return nil
		}
		return fmt.Errorf("failed to fetch order by txid: %w", err)
	}

	return s.completeOrder(&order)
}

// completeOrder marks the order paid and runs the stock decrement exactly
// once. The conditional update on stock_processed is the idempotency guard:
// whichever of poll and webhook flips it first reconciles, the other is a
// no-op.
func (s *OrderService) completeOrder(order *models.Order) error {
	now := time.Now()
	result := s.db.Model(&models.Order{}).
		Where("id = ? AND stock_processed = ?", order.ID, false).
		Updates(map[string]interface{}{
			"payment_status":  models.PaymentStatusCompleted,
			"stock_processed": true,
			"paid_at":         now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete order: %w", result.Error)
	}

	order.PaymentStatus = models.PaymentStatusCompleted
	order.StockProcessed = true
	order.PaidAt = &now

	if result.RowsAffected == 0 {
		// Another completion signal won the race.
		return nil
	}

	adjustments, err := s.inventory.Apply(order.Items, order.ID.String())
	if err != nil {
		// The order is paid either way; stock accounting must not undo that.
		logrus.WithError(err).WithField("order_id", order.ID).
			Error("Stock reconciliation failed after payment, needs manual review")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"adjustments": len(adjustments),
	}).Info("Order completed, stock reconciled")
	return nil
}

// UpdateStock is the direct client-reported completion path. Invalid entries
// are filtered rather than rejected, and internal failures come back as a
// soft success with the manual-check flag so upstream messaging flows are
// never blocked on inventory bookkeeping.
func (s *OrderService) UpdateStock(req *UpdateStockRequest) *UpdateStockResult {
	items := FilterValidItems(req.Items)
	if len(items) == 0 {
		return &UpdateStockResult{}
	}

	adjustments, err := s.inventory.Apply(items, "manual")
	if err != nil {
		logrus.WithError(err).Error("Direct stock update failed, flagging for manual check")
		return &UpdateStockResult{NeedsManualCheck: true}
	}

	return &UpdateStockResult{Adjusted: len(adjustments)}
}

// ListOrders returns the admin order listing, optionally filtered by
// payment status.
func (s *OrderService) ListOrders(params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})
	if params.Status != "" {
		query = query.Where("payment_status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total", "payment_status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

// FilterValidItems keeps entries with a positive product id and quantity and
// some way to address a variant. The invalid rest is dropped, not rejected.
func FilterValidItems(items []models.OrderItem) []models.OrderItem {
	valid := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			continue
		}
		if item.VariantID == "" && item.VariantIndex < 0 {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}
