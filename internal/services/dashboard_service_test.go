// internal/services/dashboard_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/freshcart-backend/internal/models"
)

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)

	createTestOrder(t, db, models.OrderStatusPlaced, 100)
	createTestOrder(t, db, models.OrderStatusDelivered, 50)
	createTestOrder(t, db, models.OrderStatusCancelled, 999)
	createTestProduct(t, db, "Milk", 3, 2)
	createTestAgent(t, db, "agent-stats@test.local", true)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.EqualValues(t, 1, stats.DeliveredOrders)
	assert.Equal(t, 150.0, stats.TotalRevenue, "cancelled orders must not count as revenue")
	assert.Equal(t, 150.0, stats.RevenueWeek)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.EqualValues(t, 1, stats.ActiveAgents)
	assert.EqualValues(t, 3, stats.TotalCustomers)
}

func TestGetTopProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)

	apples := createTestProduct(t, db, "Apples", 2, 100)
	bananas := createTestProduct(t, db, "Bananas", 1, 100)

	order := createTestOrder(t, db, models.OrderStatusDelivered, 14)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: &apples.ID, Quantity: 2, Price: 2,
	}).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: order.ID, ProductID: &bananas.ID, Quantity: 10, Price: 1,
	}).Error)

	cancelled := createTestOrder(t, db, models.OrderStatusCancelled, 40)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: cancelled.ID, ProductID: &apples.ID, Quantity: 20, Price: 2,
	}).Error)

	top, err := svc.GetTopProducts(30, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Bananas", top[0].Name)
	assert.EqualValues(t, 10, top[0].UnitsSold)
	assert.Equal(t, "Apples", top[1].Name)
	assert.EqualValues(t, 2, top[1].UnitsSold, "cancelled orders are excluded from the ranking")
}

func TestGetRecentOrdersLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db)

	for i := 0; i < 5; i++ {
		createTestOrder(t, db, models.OrderStatusPlaced, float64(i))
	}

	orders, err := svc.GetRecentOrders(3)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}
