// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortVariantsForDisplay(t *testing.T) {
	product := Product{
		Variants: VariantList{
			{ID: "a", Name: "Ninho", Quantity: 0},
			{ID: "b", Name: "Chocolate", Quantity: 5},
			{ID: "c", Name: "Limão", Quantity: 0},
			{ID: "d", Name: "Morango", Quantity: 3},
		},
	}

	product.SortVariantsForDisplay()

	quantities := make([]int, len(product.Variants))
	names := make([]string, len(product.Variants))
	for i, v := range product.Variants {
		quantities[i] = v.Quantity
		names[i] = v.Name
	}

	assert.Equal(t, []int{5, 3, 0, 0}, quantities)
	// Relative order inside each group is preserved.
	assert.Equal(t, []string{"Chocolate", "Morango", "Ninho", "Limão"}, names)
}

func TestSortVariantsForDisplayAllInStock(t *testing.T) {
	product := Product{
		Variants: VariantList{
			{ID: "a", Quantity: 1},
			{ID: "b", Quantity: 2},
		},
	}

	product.SortVariantsForDisplay()

	assert.Equal(t, "a", product.Variants[0].ID)
	assert.Equal(t, "b", product.Variants[1].ID)
}

func TestVariantByID(t *testing.T) {
	product := Product{
		Variants: VariantList{
			{ID: "a", Name: "Ninho"},
			{ID: "b", Name: "Chocolate"},
		},
	}

	idx, variant := product.VariantByID("b")
	require.NotNil(t, variant)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Chocolate", variant.Name)

	idx, variant = product.VariantByID("missing")
	assert.Nil(t, variant)
	assert.Equal(t, -1, idx)

	// Empty IDs never match, even if a variant has an empty ID.
	product.Variants = append(product.Variants, Variant{ID: ""})
	idx, variant = product.VariantByID("")
	assert.Nil(t, variant)
	assert.Equal(t, -1, idx)
}

func TestVariantListValueNilEncodesEmptyArray(t *testing.T) {
	var variants VariantList

	value, err := variants.Value()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(value.([]byte)))
}
