// internal/cache/cache.go
package cache

import (
	"sync"
	"time"

	"github.com/urbanz/sabores-backend/internal/models"
)

// ProductCache is a single-slot TTL cache for the storefront product list.
// It is owned by the router and handed to the services that need it, so
// there is no package-level mutable state. Concurrent refreshes at worst
// duplicate one upstream read; the slot is replaced wholesale.
type ProductCache struct {
	mu       sync.RWMutex
	products []models.Product
	expiry   time.Time
	ttl      time.Duration

	now func() time.Time
}

func NewProductCache(ttl time.Duration) *ProductCache {
	return &ProductCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached list, or (nil, false) when the slot is empty or
// past its expiry.
func (c *ProductCache) Get() ([]models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.products == nil || c.now().After(c.expiry) {
		return nil, false
	}
	return c.products, true
}

// Set replaces the slot and restarts the TTL window.
func (c *ProductCache) Set(products []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = products
	c.expiry = c.now().Add(c.ttl)
}

// Invalidate empties the slot regardless of remaining TTL.
func (c *ProductCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = nil
	c.expiry = time.Time{}
}

// TTL reports the configured window, used for the Cache-Control max-age.
func (c *ProductCache) TTL() time.Duration { return c.ttl }
