// internal/services/inventory_apply_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/urbanz/sabores-backend/internal/cache"
	"github.com/urbanz/sabores-backend/internal/models"
)

func newMockedInventory(t *testing.T) (*InventoryService, sqlmock.Sqlmock, *cache.ProductCache) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	productCache := cache.NewProductCache(time.Minute)
	return NewInventoryService(gdb, productCache), mock, productCache
}

func snapshotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "sabores", "version"}).
		AddRow(1, "Brigadeiro", []byte(`[{"id":"v-choc","name":"Chocolate","quantity":10}]`), 1).
		AddRow(2, "Beijinho", []byte(`[{"id":"v-coco","name":"Coco","quantity":8}]`), 1)
}

// A write failure partway through must not hide the products already
// persisted: their adjustments are returned and the product cache is
// invalidated alongside the error.
func TestApplyPartialFailureStillInvalidatesCache(t *testing.T) {
	svc, mock, productCache := newMockedInventory(t)
	productCache.Set([]models.Product{{ID: 1}})

	mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnRows(snapshotRows())
	mock.ExpectExec(`UPDATE "products"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products"`).WillReturnError(errors.New("connection reset"))
	// The audit insert for the first product may still run; its failure is
	// tolerated, so no expectation is registered for it.

	items := []models.OrderItem{
		{ProductID: 1, VariantID: "v-choc", Quantity: 2},
		{ProductID: 2, VariantID: "v-coco", Quantity: 3},
	}

	applied, err := svc.Apply(items, "order-partial")

	require.Error(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 1, applied[0].ProductID)
	assert.Equal(t, 8, applied[0].NewQuantity)

	_, ok := productCache.Get()
	assert.False(t, ok, "cache must be invalidated for the products that were written")
}

func TestApplyFirstWriteFailureLeavesCacheAlone(t *testing.T) {
	svc, mock, productCache := newMockedInventory(t)
	productCache.Set([]models.Product{{ID: 1}})

	rows := sqlmock.NewRows([]string{"id", "title", "sabores", "version"}).
		AddRow(1, "Brigadeiro", []byte(`[{"id":"v-choc","name":"Chocolate","quantity":10}]`), 1)
	mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnRows(rows)
	mock.ExpectExec(`UPDATE "products"`).WillReturnError(errors.New("connection reset"))

	items := []models.OrderItem{
		{ProductID: 1, VariantID: "v-choc", Quantity: 2},
	}

	applied, err := svc.Apply(items, "order-failed")

	require.Error(t, err)
	assert.Empty(t, applied)

	// Nothing was written, so the cached catalog is still valid.
	_, ok := productCache.Get()
	assert.True(t, ok)
}
