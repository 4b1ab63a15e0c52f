// internal/services/product_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanz/sabores-backend/internal/cache"
	"github.com/urbanz/sabores-backend/internal/database"
	"github.com/urbanz/sabores-backend/internal/models"
)

const placeholderImage = "https://via.placeholder.com/400x300"

type ProductService struct {
	db    *gorm.DB
	cache *cache.ProductCache
}

// VariantInput mirrors the public variant shape. IDs are optional on input;
// missing ones are generated during normalization.
type VariantInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

// LegacySize and LegacyColor describe the pre-sabores product shape some
// admin clients still send. A color's stock is the sum of its size stocks.
type LegacySize struct {
	Name  string `json:"name,omitempty"`
	Stock int    `json:"stock"`
}

type LegacyColor struct {
	Name     string       `json:"name"`
	Image    string       `json:"image"`
	Quantity int          `json:"quantity"`
	Sizes    []LegacySize `json:"sizes,omitempty"`
}

type ProductInput struct {
	ID           int                  `json:"id,omitempty"`
	Title        string               `json:"title"`
	Category     string               `json:"category"`
	Price        float64              `json:"price"`
	Description  string               `json:"description"`
	Status       models.ProductStatus `json:"status,omitempty"`
	DisplayOrder int                  `json:"display_order,omitempty"`
	Images       []string             `json:"images,omitempty"`
	Sabores      []VariantInput       `json:"sabores,omitempty"`
	Colors       []LegacyColor        `json:"colors,omitempty"`
}

func NewProductService(db *gorm.DB, productCache *cache.ProductCache) *ProductService {
	return &ProductService{
		db:    db,
		cache: productCache,
	}
}

// ListProducts serves from the cache when the slot is warm; otherwise it
// reads the catalog, normalizes it for display and refills the slot.
func (s *ProductService) ListProducts() ([]models.Product, error) {
	if products, ok := s.cache.Get(); ok {
		return products, nil
	}

	var products []models.Product
	if err := s.db.Order("display_order, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	for i := range products {
		products[i].SortVariantsForDisplay()
	}

	s.cache.Set(products)
	return products, nil
}

// RefreshCache forces a fresh read into the slot.
func (s *ProductService) RefreshCache() ([]models.Product, error) {
	s.cache.Invalidate()
	return s.ListProducts()
}

// SaveProducts replaces the whole catalog: full delete plus re-insert inside
// one transaction, the way the admin panel has always saved. Returns the
// number of products written.
func (s *ProductService) SaveProducts(inputs []ProductInput) (int, error) {
	products := NormalizeProducts(inputs)

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM products").Error; err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}

		if len(products) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(products, 100).Error; err != nil {
			return fmt.Errorf("failed to insert products: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate()
	return len(products), nil
}

// NormalizeProducts converts inputs (current or legacy shape) into storable
// records: legacy colors/sizes collapse into sabores, missing names and
// images get defaults, and every variant ends up with a stable generated ID.
func NormalizeProducts(inputs []ProductInput) []models.Product {
	products := make([]models.Product, 0, len(inputs))

	for i, input := range inputs {
		status := input.Status
		if status == "" {
			status = models.ProductStatusActive
		}

		displayOrder := input.DisplayOrder
		if displayOrder == 0 {
			displayOrder = i
		}

		products = append(products, models.Product{
			ID:           input.ID,
			Title:        input.Title,
			Category:     input.Category,
			Price:        input.Price,
			Description:  input.Description,
			Status:       status,
			DisplayOrder: displayOrder,
			Images:       input.Images,
			Variants:     normalizeVariants(input),
			Version:      1,
		})
	}

	return products
}

func normalizeVariants(input ProductInput) models.VariantList {
	variants := make(models.VariantList, 0, len(input.Sabores)+len(input.Colors))

	if len(input.Sabores) == 0 && len(input.Colors) > 0 {
		for _, color := range input.Colors {
			quantity := color.Quantity
			if len(color.Sizes) > 0 {
				quantity = 0
				for _, size := range color.Sizes {
					quantity += size.Stock
				}
			}
			variants = append(variants, normalizeVariant(VariantInput{
				Name:     color.Name,
				Image:    color.Image,
				Quantity: quantity,
			}))
		}
		return variants
	}

	for _, sabor := range input.Sabores {
		variants = append(variants, normalizeVariant(sabor))
	}
	return variants
}

func normalizeVariant(input VariantInput) models.Variant {
	variant := models.Variant{
		ID:          input.ID,
		Name:        input.Name,
		Image:       input.Image,
		Description: input.Description,
		Quantity:    input.Quantity,
	}

	if variant.ID == "" {
		variant.ID = uuid.NewString()
	}
	if variant.Name == "" {
		variant.Name = "Sem nome"
	}
	if variant.Image == "" {
		variant.Image = placeholderImage
	}
	if variant.Quantity < 0 {
		variant.Quantity = 0
	}
	return variant
}
