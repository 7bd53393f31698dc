// internal/services/dashboard_service.go
package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
)

// DashboardService aggregates the numbers the admin home page shows.
type DashboardService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalOrders      int64   `json:"total_orders"`
	OrdersToday      int64   `json:"orders_today"`
	PendingOrders    int64   `json:"pending_orders"`
	DeliveredOrders  int64   `json:"delivered_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	RevenueToday     float64 `json:"revenue_today"`
	RevenueWeek      float64 `json:"revenue_week"`
	ActiveDeliveries int64   `json:"active_deliveries"`
	TotalProducts    int64   `json:"total_products"`
	LowStockCount    int64   `json:"low_stock_count"`
	TotalCustomers   int64   `json:"total_customers"`
	ActiveAgents     int64   `json:"active_agents"`
}

type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitsSold int64   `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetStats runs the headline counters. Revenue only counts orders that were
// not cancelled.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	today := time.Now().Truncate(24 * time.Hour)

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Where("created_at >= ?", today).
		Count(&stats.OrdersToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderStatusPlaced, models.OrderStatusPacked, models.OrderStatusOutForDelivery}).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusDelivered).
		Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count delivered orders: %w", err)
	}

	var revenue struct{ Total float64 }
	if err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status <> ?", models.OrderStatusCancelled).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = revenue.Total

	if err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status <> ? AND created_at >= ?", models.OrderStatusCancelled, today).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	stats.RevenueToday = revenue.Total

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status <> ? AND created_at >= ?", models.OrderStatusCancelled, weekAgo).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum weekly revenue: %w", err)
	}
	stats.RevenueWeek = revenue.Total

	if err := s.db.Model(&models.Delivery{}).
		Where("status NOT IN ?", []models.DeliveryStatus{models.DeliveryStatusDelivered, models.DeliveryStatusCancelled}).
		Count(&stats.ActiveDeliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to count active deliveries: %w", err)
	}

	if err := s.db.Model(&models.Product{}).Where("is_active = ?", true).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Inventory{}).Where("stock <= low_stock_threshold").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("role = ?", models.UserRoleCustomer).
		Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := s.db.Model(&models.DeliveryAgent{}).Where("is_available = ?", true).
		Count(&stats.ActiveAgents).Error; err != nil {
		return nil, fmt.Errorf("failed to count agents: %w", err)
	}

	return stats, nil
}

func (s *DashboardService) GetRecentOrders(limit int) ([]models.Order, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var orders []models.Order
	err := s.db.Order("created_at desc").Limit(limit).
		Preload("User").Preload("Items").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// GetTopProducts ranks products by units sold over the trailing window.
func (s *DashboardService) GetTopProducts(days, limit int) ([]TopProduct, error) {
	if days < 1 {
		days = 30
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	since := time.Now().AddDate(0, 0, -days)

	var top []TopProduct
	err := s.db.Model(&models.OrderItem{}).
		Select("order_items.product_id as product_id, products.name as name, SUM(order_items.quantity) as units_sold, SUM(order_items.quantity * order_items.price) as revenue").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.status <> ?", since, models.OrderStatusCancelled).
		Group("order_items.product_id, products.name").
		Order("units_sold desc").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	return top, nil
}
