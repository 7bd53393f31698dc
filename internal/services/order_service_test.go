// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

func createTestOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, total float64) *models.Order {
	t.Helper()

	user := createTestUser(t, db, "customer-"+uuid.NewString()+"@test.local", models.UserRoleCustomer)
	order := &models.Order{
		UserID:      &user.ID,
		Status:      status,
		TotalAmount: total,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestUpdateStatusHappyPath(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusPlaced, 42)

	for _, next := range []models.OrderStatus{
		models.OrderStatusPacked,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: next})
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusPlaced, 42)

	_, err := svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusTerminalStates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	delivered := createTestOrder(t, db, models.OrderStatusDelivered, 10)
	_, err := svc.UpdateStatus(delivered.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled := createTestOrder(t, db, models.OrderStatusCancelled, 10)
	_, err = svc.UpdateStatus(cancelled.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusPacked})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusMirrorsDelivery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusPacked, 15)
	agent := createTestAgent(t, db, "courier-mirror@test.local", true)

	_, err := svc.AssignAgent(order.ID, &AssignAgentRequest{AgentID: agent.ID})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusOutForDelivery})
	require.NoError(t, err)

	var delivery models.Delivery
	require.NoError(t, db.Where("order_id = ? AND status <> ?", order.ID, models.DeliveryStatusCancelled).
		First(&delivery).Error)
	assert.Equal(t, models.DeliveryStatusPickedUp, delivery.Status)
}

func TestAssignAgent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusPacked, 30)
	agent := createTestAgent(t, db, "courier-1@test.local", true)

	updated, err := svc.AssignAgent(order.ID, &AssignAgentRequest{AgentID: agent.ID})
	require.NoError(t, err)
	require.Len(t, updated.Deliveries, 1)
	assert.Equal(t, agent.ID, updated.Deliveries[0].AgentID)
	assert.Equal(t, models.DeliveryStatusAssigned, updated.Deliveries[0].Status)
}

func TestAssignAgentUnavailable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusPacked, 30)
	agent := createTestAgent(t, db, "courier-2@test.local", false)

	_, err := svc.AssignAgent(order.ID, &AssignAgentRequest{AgentID: agent.ID})
	assert.ErrorIs(t, err, ErrAgentUnavailable)
}

func TestReassignCancelsPriorDelivery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusPacked, 30)
	first := createTestAgent(t, db, "courier-3@test.local", true)
	second := createTestAgent(t, db, "courier-4@test.local", true)

	_, err := svc.AssignAgent(order.ID, &AssignAgentRequest{AgentID: first.ID})
	require.NoError(t, err)
	_, err = svc.AssignAgent(order.ID, &AssignAgentRequest{AgentID: second.ID})
	require.NoError(t, err)

	var deliveries []models.Delivery
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&deliveries).Error)
	require.Len(t, deliveries, 2)
	statusByAgent := map[string]models.DeliveryStatus{}
	for _, d := range deliveries {
		statusByAgent[d.AgentID.String()] = d.Status
	}
	assert.Equal(t, models.DeliveryStatusCancelled, statusByAgent[first.ID.String()])
	assert.Equal(t, models.DeliveryStatusAssigned, statusByAgent[second.ID.String()])
}

func TestAssignAgentTerminalOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, db, models.OrderStatusDelivered, 30)
	agent := createTestAgent(t, db, "courier-5@test.local", true)

	_, err := svc.AssignAgent(order.ID, &AssignAgentRequest{AgentID: agent.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListOrdersByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	createTestOrder(t, db, models.OrderStatusPlaced, 10)
	createTestOrder(t, db, models.OrderStatusPlaced, 20)
	createTestOrder(t, db, models.OrderStatusDelivered, 30)

	placed := models.OrderStatusPlaced
	orders, total, err := svc.ListOrders(OrderSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10, Sort: "created_at", Order: "desc"},
		Status:           &placed,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)
}
