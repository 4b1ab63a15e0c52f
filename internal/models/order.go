// internal/models/order.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderItem references a product variant. VariantID is the stable reference;
// VariantIndex is accepted as a fallback for clients that still address
// variants by position.
type OrderItem struct {
	ProductID    int    `json:"product_id"`
	VariantID    string `json:"variant_id,omitempty"`
	VariantIndex int    `json:"variant_index"`
	Quantity     int    `json:"quantity"`
}

type OrderItemList []OrderItem

func (l OrderItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]OrderItem{})
	}
	return json.Marshal(l)
}

func (l *OrderItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, l)
}

type Order struct {
	ID       uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Items    OrderItemList `json:"items" gorm:"type:jsonb"`
	Customer JSONB         `json:"customer" gorm:"type:jsonb"`
	Total    float64       `json:"total" gorm:"type:decimal(10,2);not null"`

	// Payment record from the PIX gateway.
	TxID          string        `json:"txid" gorm:"size:64;uniqueIndex"`
	LocationID    int64         `json:"location_id"`
	QRCode        string        `json:"qr_code" gorm:"type:text"`
	QRCodeImage   string        `json:"qr_code_image,omitempty" gorm:"type:text"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	// StockProcessed guards reconciliation: poll and webhook both complete
	// orders, and only the caller that flips this flag runs the decrement.
	StockProcessed bool `json:"stock_processed" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
