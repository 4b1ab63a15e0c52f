// internal/models/product.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"time"

	"github.com/lib/pq"
)

// Variant ("sabor") is a purchasable flavor of a product carrying its own
// stock count. Variants have generated stable IDs; the position inside the
// product's variant list is kept only for old clients that still reference
// variants by index.
type Variant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

// VariantList is stored as a JSONB column so the variant list travels with
// the product record, matching the whole-record save semantics of the API.
type VariantList []Variant

func (v VariantList) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]Variant{})
	}
	return json.Marshal(v)
}

func (v *VariantList) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, v)
}

type Product struct {
	ID           int            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string         `json:"title" gorm:"size:255;not null"`
	Category     string         `json:"category" gorm:"size:100;index"`
	Price        float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Status       ProductStatus  `json:"status" gorm:"type:varchar(20);default:'active';index"`
	DisplayOrder int            `json:"display_order" gorm:"default:0"`
	Images       pq.StringArray `json:"images,omitempty" gorm:"type:text[]"`
	Variants     VariantList    `json:"sabores" gorm:"type:jsonb;column:sabores"`
	Version      int            `json:"-" gorm:"default:1"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// VariantByID returns the variant with the given ID and its position.
func (p *Product) VariantByID(id string) (int, *Variant) {
	if id == "" {
		return -1, nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return i, &p.Variants[i]
		}
	}
	return -1, nil
}

// SortVariantsForDisplay puts in-stock variants before sold-out ones,
// preserving the original relative order inside each group.
func (p *Product) SortVariantsForDisplay() {
	sort.SliceStable(p.Variants, func(i, j int) bool {
		return p.Variants[i].Quantity > 0 && p.Variants[j].Quantity <= 0
	})
}
