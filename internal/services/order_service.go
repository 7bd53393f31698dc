// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAgentNotFound     = errors.New("delivery agent not found")
	ErrAgentUnavailable  = errors.New("delivery agent is not available")
)

// statusTransitions is the fulfillment state machine. Delivered and cancelled
// are terminal.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPlaced:         {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:         {models.OrderStatusOutForDelivery, models.OrderStatusCancelled},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

type OrderService struct {
	db *gorm.DB
}

type OrderSearchParams struct {
	utils.PaginationParams
	Status *models.OrderStatus
	UserID *uuid.UUID
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type AssignAgentRequest struct {
	AgentID uuid.UUID `json:"agent_id" validate:"required"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) ListOrders(params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "total_amount", "status"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	err := query.Preload("User").Preload("Items").Preload("Items.Product").
		Preload("Deliveries").Preload("Deliveries.Agent").Preload("Deliveries.Agent.User").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("User").Preload("Items").Preload("Items.Product").
		Preload("Deliveries").Preload("Deliveries.Agent").Preload("Deliveries.Agent.User").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// UpdateStatus advances an order through the fulfillment state machine and
// keeps the active delivery row in step.
func (s *OrderService) UpdateStatus(id uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	err := s.db.First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !canTransition(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, req.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		// Mirror terminal states onto the assigned delivery.
		var deliveryStatus models.DeliveryStatus
		switch req.Status {
		case models.OrderStatusDelivered:
			deliveryStatus = models.DeliveryStatusDelivered
		case models.OrderStatusCancelled:
			deliveryStatus = models.DeliveryStatusCancelled
		case models.OrderStatusOutForDelivery:
			deliveryStatus = models.DeliveryStatusPickedUp
		default:
			return nil
		}

		if err := tx.Model(&models.Delivery{}).
			Where("order_id = ? AND status NOT IN ?", order.ID,
				[]models.DeliveryStatus{models.DeliveryStatusDelivered, models.DeliveryStatusCancelled}).
			Update("status", deliveryStatus).Error; err != nil {
			return fmt.Errorf("failed to update delivery status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(id)
}

// AssignAgent attaches an available delivery agent to an order. Re-assigning
// cancels the prior delivery row rather than editing it, so the history of
// hand-offs survives.
func (s *OrderService) AssignAgent(orderID uuid.UUID, req *AssignAgentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	err := s.db.First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	var agent models.DeliveryAgent
	err = s.db.First(&agent, "id = ?", req.AgentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !agent.IsAvailable {
		return nil, ErrAgentUnavailable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Delivery{}).
			Where("order_id = ? AND status = ?", orderID, models.DeliveryStatusAssigned).
			Update("status", models.DeliveryStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel previous assignment: %w", err)
		}

		delivery := &models.Delivery{
			OrderID: orderID,
			AgentID: agent.ID,
			Status:  models.DeliveryStatusAssigned,
		}
		if err := tx.Create(delivery).Error; err != nil {
			return fmt.Errorf("failed to create delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

func canTransition(from, to models.OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
