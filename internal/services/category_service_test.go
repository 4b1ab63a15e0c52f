// internal/services/category_service_test.go
package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanz/sabores-backend/internal/models"
)

func TestCategoryInputAcceptsBareString(t *testing.T) {
	var inputs []CategoryInput
	err := json.Unmarshal([]byte(`["bolos", {"id":"doces","name":"Doces finos"}]`), &inputs)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "bolos", inputs[0].ID)
	assert.Empty(t, inputs[0].Name)
	assert.Equal(t, "doces", inputs[1].ID)
	assert.Equal(t, "Doces finos", inputs[1].Name)
}

func TestCategoryInputRejectsInvalidJSON(t *testing.T) {
	var input CategoryInput
	err := json.Unmarshal([]byte(`42`), &input)
	assert.Error(t, err)
}

func TestNormalizeCategoriesDefaults(t *testing.T) {
	categories := NormalizeCategories([]CategoryInput{
		{ID: "bolos"},
		{ID: "doces", Name: "Doces Finos", Description: "Feitos à mão"},
		{Name: "sem id"},
	})

	require.Len(t, categories, 2)

	assert.Equal(t, "bolos", categories[0].ID)
	assert.Equal(t, "Bolos", categories[0].Name)
	assert.Equal(t, "Categoria de Bolos", categories[0].Description)

	assert.Equal(t, "Doces Finos", categories[1].Name)
	assert.Equal(t, "Feitos à mão", categories[1].Description)
}

func TestReplacementCategoryPicksFirstSurvivor(t *testing.T) {
	survivors := []models.Category{
		{ID: "bolos", Name: "Bolos"},
		{ID: "doces", Name: "Doces"},
		{ID: "salgados", Name: "Salgados"},
	}

	replacement, ok := replacementCategory(survivors, "bolos")
	require.True(t, ok)
	assert.Equal(t, "doces", replacement.ID)

	replacement, ok = replacementCategory(survivors, "doces")
	require.True(t, ok)
	assert.Equal(t, "bolos", replacement.ID)
}

// Deleting the last category leaves products with the dangling id.
func TestReplacementCategoryNoneLeft(t *testing.T) {
	_, ok := replacementCategory([]models.Category{{ID: "bolos"}}, "bolos")
	assert.False(t, ok)

	_, ok = replacementCategory(nil, "bolos")
	assert.False(t, ok)
}

func TestTitleize(t *testing.T) {
	assert.Equal(t, "Bolos", titleize("bolos"))
	assert.Equal(t, "Bolos", titleize("Bolos"))
	assert.Equal(t, "", titleize(""))
}
