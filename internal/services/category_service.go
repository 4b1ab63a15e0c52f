// internal/services/category_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/urbanz/sabores-backend/internal/cache"
	"github.com/urbanz/sabores-backend/internal/database"
	"github.com/urbanz/sabores-backend/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNoCategories     = errors.New("no categories provided")
)

type CategoryService struct {
	db    *gorm.DB
	cache *cache.ProductCache
}

// CategoryInput accepts either a bare string ("bolos") or a full object.
// Bare strings become {id, Titleized name, default description}.
type CategoryInput struct {
	ID          string `json:"id" validate:"omitempty,slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *CategoryInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.ID = s
		return nil
	}

	type alias CategoryInput
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = CategoryInput(obj)
	return nil
}

func NewCategoryService(db *gorm.DB, productCache *cache.ProductCache) *CategoryService {
	return &CategoryService{
		db:    db,
		cache: productCache,
	}
}

// ListCategories is never cached: the admin panel expects edits to show up
// immediately.
func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// NormalizeCategories fills in defaults and drops entries without an id.
func NormalizeCategories(inputs []CategoryInput) []models.Category {
	categories := make([]models.Category, 0, len(inputs))
	for _, input := range inputs {
		if input.ID == "" {
			continue
		}

		name := input.Name
		if name == "" {
			name = titleize(input.ID)
		}
		description := input.Description
		if description == "" {
			description = "Categoria de " + name
		}

		categories = append(categories, models.Category{
			ID:          input.ID,
			Name:        name,
			Description: description,
		})
	}
	return categories
}

// SaveCategories replaces the category set: everything not in the incoming
// list is deleted, the rest upserted by id.
func (s *CategoryService) SaveCategories(inputs []CategoryInput) (int, error) {
	categories := NormalizeCategories(inputs)
	if len(categories) == 0 {
		return 0, ErrNoCategories
	}

	ids := make([]string, 0, len(categories))
	for _, cat := range categories {
		ids = append(ids, cat.ID)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("id NOT IN ?", ids).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("failed to delete removed categories: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to upsert categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(categories), nil
}

// AddCategory upserts a single category.
func (s *CategoryService) AddCategory(input CategoryInput) (*models.Category, error) {
	normalized := NormalizeCategories([]CategoryInput{input})
	if len(normalized) == 0 {
		return nil, errors.New("invalid category data")
	}
	category := normalized[0]

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert category: %w", err)
	}

	return &category, nil
}

// DeleteCategory removes a category. Products assigned to it move to an
// arbitrary surviving category first; when no other category exists they
// keep the dangling id, matching the admin panel's expectations.
func (s *CategoryService) DeleteCategory(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("category = ?", id).Count(&productCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products in category: %w", err)
	}

	if productCount > 0 {
		var survivors []models.Category
		if err := s.db.Order("id").Find(&survivors).Error; err != nil {
			return nil, fmt.Errorf("failed to find replacement category: %w", err)
		}

		if replacement, ok := replacementCategory(survivors, id); ok {
			if err := s.db.Model(&models.Product{}).
				Where("category = ?", id).
				Update("category", replacement.ID).Error; err != nil {
				return nil, fmt.Errorf("failed to move products: %w", err)
			}
			s.cache.Invalidate()
		}
		// No surviving category: products keep the deleted id.
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	return &category, nil
}

// replacementCategory decides where the products of a deleted category move:
// the first surviving category in id order, or none when the deleted category
// was the last one left.
func replacementCategory(categories []models.Category, deletedID string) (*models.Category, bool) {
	for i := range categories {
		if categories[i].ID != deletedID {
			return &categories[i], true
		}
	}
	return nil, false
}

func titleize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
