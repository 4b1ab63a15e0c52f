// internal/models/stock_adjustment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// StockAdjustment records one variant decrement. Rows are append-only and
// never mutated; losing one is logged but does not fail the stock write.
type StockAdjustment struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID        int       `json:"product_id" gorm:"not null;index"`
	VariantID        string    `json:"variant_id" gorm:"size:64;index"`
	VariantIndex     int       `json:"variant_index"`
	ProductTitle     string    `json:"product_title" gorm:"size:255"`
	VariantName      string    `json:"variant_name" gorm:"size:255"`
	OldQuantity      int       `json:"old_quantity" gorm:"not null"`
	NewQuantity      int       `json:"new_quantity" gorm:"not null"`
	QuantityConsumed int       `json:"quantity_consumed" gorm:"not null"`
	Reference        string    `json:"reference" gorm:"size:64;index"`
	CreatedAt        time.Time `json:"created_at"`
}
