// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/urbanz/sabores-backend/internal/cache"
	"github.com/urbanz/sabores-backend/internal/models"
)

// InventoryService owns order-stock reconciliation: it loads a snapshot of
// the touched products, applies the decrements in memory, writes the
// modified records back under an optimistic version check, and appends the
// audit trail. Stock correctness is mandatory; audit completeness is
// best-effort.
type InventoryService struct {
	db    *gorm.DB
	cache *cache.ProductCache
}

// Bound on version-conflict retries per product before giving up.
const maxStockWriteRetries = 3

func NewInventoryService(db *gorm.DB, productCache *cache.ProductCache) *InventoryService {
	return &InventoryService{
		db:    db,
		cache: productCache,
	}
}

// LoadSnapshot fetches the current records for the given product ids in one
// query. Ids with no matching record are silently omitted. An empty input
// returns empty without touching the database.
func (s *InventoryService) LoadSnapshot(ids []int) (map[int]*models.Product, error) {
	snapshot := make(map[int]*models.Product, len(ids))
	if len(ids) == 0 {
		return snapshot, nil
	}

	var products []models.Product
	if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}

	for i := range products {
		snapshot[products[i].ID] = &products[i]
	}
	return snapshot, nil
}

// Reconcile applies the item decrements against the snapshot in memory. For
// each item whose product and variant resolve, the variant quantity becomes
// max(0, old - requested); items that change nothing are skipped and produce
// no audit entry. The snapshot's products are mutated in place; the returned
// slice holds the modified ones in first-touched order.
//
// Reconcile is deterministic and makes no external calls. Applying the same
// item list twice decrements twice: idempotency is the caller's job (orders
// carry a processed flag for that).
func Reconcile(snapshot map[int]*models.Product, items []models.OrderItem, reference string) ([]*models.Product, []models.StockAdjustment) {
	var modified []*models.Product
	var adjustments []models.StockAdjustment
	touched := make(map[int]bool)

	for _, item := range items {
		product, ok := snapshot[item.ProductID]
		if !ok {
			continue
		}

		adj := applyItem(product, item, reference)
		if adj == nil {
			continue
		}

		adjustments = append(adjustments, *adj)
		if !touched[product.ID] {
			touched[product.ID] = true
			modified = append(modified, product)
		}
	}

	return modified, adjustments
}

// applyItem decrements one variant, flooring at zero. Returns nil when the
// item resolves to nothing or changes nothing.
func applyItem(product *models.Product, item models.OrderItem, reference string) *models.StockAdjustment {
	if item.Quantity <= 0 {
		return nil
	}

	idx, variant := product.VariantByID(item.VariantID)
	if variant == nil {
		if item.VariantIndex < 0 || item.VariantIndex >= len(product.Variants) {
			return nil
		}
		idx = item.VariantIndex
		variant = &product.Variants[idx]
	}

	old := variant.Quantity
	updated := old - item.Quantity
	if updated < 0 {
		updated = 0
	}
	if updated == old {
		return nil
	}

	variant.Quantity = updated
	return &models.StockAdjustment{
		ProductID:        product.ID,
		VariantID:        variant.ID,
		VariantIndex:     idx,
		ProductTitle:     product.Title,
		VariantName:      variant.Name,
		OldQuantity:      old,
		NewQuantity:      updated,
		QuantityConsumed: old - updated,
		Reference:        reference,
	}
}

// Apply is the full read-reconcile-write cycle. It returns the adjustments
// that were actually persisted. The product cache is invalidated whenever
// any stock changed.
func (s *InventoryService) Apply(items []models.OrderItem, reference string) ([]models.StockAdjustment, error) {
	ids := distinctProductIDs(items)
	if len(ids) == 0 {
		return nil, nil
	}

	snapshot, err := s.LoadSnapshot(ids)
	if err != nil {
		return nil, err
	}

	modified, adjustments := Reconcile(snapshot, items, reference)
	if len(modified) == 0 {
		return nil, nil
	}

	byProduct := groupAdjustments(adjustments)
	itemsByProduct := groupItems(items)

	var applied []models.StockAdjustment
	var writeErr error
	for _, product := range modified {
		adjs, err := s.writeProduct(product, byProduct[product.ID], itemsByProduct[product.ID], reference)
		if err != nil {
			writeErr = err
			break
		}
		applied = append(applied, adjs...)
	}

	// Products written before a mid-loop failure are persisted; their audit
	// rows and the cache invalidation must not be lost with them.
	if len(applied) > 0 {
		s.appendAudit(applied)
		s.cache.Invalidate()
	}
	return applied, writeErr
}

// writeProduct persists one reconciled product under a version check. A lost
// race reloads the fresh record and re-applies this product's decrements
// before trying again, so a concurrent order against another variant of the
// same product is never overwritten.
func (s *InventoryService) writeProduct(product *models.Product, adjs []models.StockAdjustment, items []models.OrderItem, reference string) ([]models.StockAdjustment, error) {
	for attempt := 0; attempt < maxStockWriteRetries; attempt++ {
		result := s.db.Model(&models.Product{}).
			Where("id = ? AND version = ?", product.ID, product.Version).
			Updates(map[string]interface{}{
				"sabores": product.Variants,
				"version": product.Version + 1,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to write stock for product %d: %w", product.ID, result.Error)
		}
		if result.RowsAffected == 1 {
			return adjs, nil
		}

		var fresh models.Product
		if err := s.db.First(&fresh, product.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product disappeared under us (bulk replace); nothing to decrement.
				return nil, nil
			}
			return nil, fmt.Errorf("failed to reload product %d: %w", product.ID, err)
		}

		adjs = nil
		for _, item := range items {
			if adj := applyItem(&fresh, item, reference); adj != nil {
				adjs = append(adjs, *adj)
			}
		}
		if len(adjs) == 0 {
			return nil, nil
		}
		product = &fresh
	}

	return nil, fmt.Errorf("stock write for product %d kept losing version races", product.ID)
}

// appendAudit writes the adjustment rows. Failures are logged and swallowed:
// the stock mutation already succeeded and must not be reported as failed
// because bookkeeping lagged.
func (s *InventoryService) appendAudit(adjustments []models.StockAdjustment) {
	if err := s.db.CreateInBatches(adjustments, 100).Error; err != nil {
		logrus.WithError(err).Warn("Failed to append stock adjustment audit rows")
	}
}

// ListAdjustments returns the audit trail, newest first.
func (s *InventoryService) ListAdjustments(productID int, limit, offset int) ([]models.StockAdjustment, int64, error) {
	query := s.db.Model(&models.StockAdjustment{})
	if productID > 0 {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count adjustments: %w", err)
	}

	var adjustments []models.StockAdjustment
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&adjustments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch adjustments: %w", err)
	}

	return adjustments, total, nil
}

func distinctProductIDs(items []models.OrderItem) []int {
	seen := make(map[int]bool, len(items))
	var ids []int
	for _, item := range items {
		if item.ProductID > 0 && !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func groupItems(items []models.OrderItem) map[int][]models.OrderItem {
	grouped := make(map[int][]models.OrderItem)
	for _, item := range items {
		grouped[item.ProductID] = append(grouped[item.ProductID], item)
	}
	return grouped
}

func groupAdjustments(adjustments []models.StockAdjustment) map[int][]models.StockAdjustment {
	grouped := make(map[int][]models.StockAdjustment)
	for _, adj := range adjustments {
		grouped[adj.ProductID] = append(grouped[adj.ProductID], adj)
	}
	return grouped
}
