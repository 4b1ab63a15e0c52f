// internal/cache/cache_test.go
package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanz/sabores-backend/internal/models"
)

func TestCacheMissWhenEmpty(t *testing.T) {
	c := NewProductCache(2 * time.Minute)

	products, ok := c.Get()
	assert.False(t, ok)
	assert.Nil(t, products)
}

func TestCacheHitWithinTTL(t *testing.T) {
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewProductCache(2 * time.Minute)
	c.now = func() time.Time { return current }

	c.Set([]models.Product{{ID: 1, Title: "Brigadeiro"}})

	current = current.Add(119 * time.Second)
	products, ok := c.Get()
	require.True(t, ok)
	require.Len(t, products, 1)
	assert.Equal(t, "Brigadeiro", products[0].Title)
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewProductCache(2 * time.Minute)
	c.now = func() time.Time { return current }

	c.Set([]models.Product{{ID: 1}})

	current = current.Add(2*time.Minute + time.Second)
	_, ok := c.Get()
	assert.False(t, ok)
}

func TestCacheSetRestartsTTL(t *testing.T) {
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewProductCache(2 * time.Minute)
	c.now = func() time.Time { return current }

	c.Set([]models.Product{{ID: 1}})
	current = current.Add(90 * time.Second)
	c.Set([]models.Product{{ID: 2}})

	current = current.Add(90 * time.Second)
	products, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 2, products[0].ID)
}

func TestCacheInvalidateIgnoresTTL(t *testing.T) {
	c := NewProductCache(time.Hour)
	c.Set([]models.Product{{ID: 1}})

	c.Invalidate()

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestCacheEmptySliceIsAHit(t *testing.T) {
	c := NewProductCache(time.Minute)
	c.Set([]models.Product{})

	products, ok := c.Get()
	assert.True(t, ok)
	assert.Empty(t, products)
}
