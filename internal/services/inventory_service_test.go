// internal/services/inventory_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

func TestUpdateStockUpsertsAndSyncsProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)
	product := createTestProduct(t, db, "Tomatoes", 2.5, 10)

	row, err := svc.UpdateStock(&UpdateInventoryRequest{
		ProductID: product.ID,
		Stock:     25,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, row.Stock)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 25, reloaded.Stock)

	// Second update hits the conflict path, not a second row.
	row, err = svc.UpdateStock(&UpdateInventoryRequest{
		ProductID:         product.ID,
		Stock:             3,
		LowStockThreshold: intPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, row.Stock)
	assert.Equal(t, 10, row.LowStockThreshold)

	var count int64
	db.Model(&models.Inventory{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateStockUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	_, err := svc.UpdateStock(&UpdateInventoryRequest{ProductID: uuid.New(), Stock: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListLowStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	low := createTestProduct(t, db, "Eggs", 6, 2)
	createTestProduct(t, db, "Flour", 4, 50)
	lower := createTestProduct(t, db, "Butter", 8, 0)

	rows, err := svc.ListLowStock()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, lower.ID, rows[0].ProductID)
	assert.Equal(t, low.ID, rows[1].ProductID)
	require.NotNil(t, rows[0].Product)
	assert.Equal(t, "Butter", rows[0].Product.Name)
}

func TestListInventorySearchByProductName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	createTestProduct(t, db, "Cheddar Cheese", 12, 8)
	createTestProduct(t, db, "Milk", 3, 30)

	rows, total, err := svc.ListInventory(utils.PaginationParams{Page: 1, Limit: 10, Search: "Cheese"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cheddar Cheese", rows[0].Product.Name)
}
