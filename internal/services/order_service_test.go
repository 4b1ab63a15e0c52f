// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urbanz/sabores-backend/internal/models"
)

func TestFilterValidItems(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: 1, VariantID: "v-1", Quantity: 2},
		{ProductID: 0, VariantID: "v-1", Quantity: 2},
		{ProductID: 2, VariantID: "v-2", Quantity: 0},
		{ProductID: 3, VariantID: "v-3", Quantity: -1},
		{ProductID: 4, VariantID: "", VariantIndex: -1, Quantity: 1},
		{ProductID: 5, VariantID: "", VariantIndex: 0, Quantity: 1},
	}

	valid := FilterValidItems(items)

	assert.Len(t, valid, 2)
	assert.Equal(t, 1, valid[0].ProductID)
	assert.Equal(t, 5, valid[1].ProductID)
}

func TestFilterValidItemsEmpty(t *testing.T) {
	assert.Empty(t, FilterValidItems(nil))
	assert.Empty(t, FilterValidItems([]models.OrderItem{}))
}
