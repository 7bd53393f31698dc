// internal/services/inventory_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

// InventoryService keeps the per-product stock rows and mirrors the stock
// count onto the product so catalog listings stay cheap.
type InventoryService struct {
	db *gorm.DB
}

type UpdateInventoryRequest struct {
	ProductID         uuid.UUID `json:"product_id" validate:"required"`
	Stock             int       `json:"stock" validate:"min=0"`
	LowStockThreshold *int      `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) ListInventory(params utils.PaginationParams) ([]models.Inventory, int64, error) {
	query := s.db.Model(&models.Inventory{})

	if params.Search != "" {
		query = query.Joins("JOIN products ON products.id = inventories.product_id").
			Where("products.name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}

	var rows []models.Inventory
	err := utils.ApplyPagination(query.Order("updated_at desc"), params).
		Preload("Product").Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}

	return rows, total, nil
}

// ListLowStock returns rows at or below their own threshold, most depleted
// first.
func (s *InventoryService) ListLowStock() ([]models.Inventory, error) {
	var rows []models.Inventory
	err := s.db.Where("stock <= low_stock_threshold").
		Order("stock asc").
		Preload("Product").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return rows, nil
}

// UpdateStock upserts the inventory row for a product and syncs the
// denormalized product stock in the same transaction.
func (s *InventoryService) UpdateStock(req *UpdateInventoryRequest) (*models.Inventory, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return nil, ErrProductNotFound
	}

	row := models.Inventory{
		ProductID: req.ProductID,
		Stock:     req.Stock,
		UpdatedAt: time.Now(),
	}
	if req.LowStockThreshold != nil {
		row.LowStockThreshold = *req.LowStockThreshold
	} else {
		row.LowStockThreshold = 5
	}

	assignments := map[string]interface{}{
		"stock":      req.Stock,
		"updated_at": row.UpdatedAt,
	}
	if req.LowStockThreshold != nil {
		assignments["low_stock_threshold"] = *req.LowStockThreshold
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to upsert inventory: %w", err)
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", req.ProductID).
			Update("stock", req.Stock).Error; err != nil {
			return fmt.Errorf("failed to sync product stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Inventory
	if err := s.db.Preload("Product").First(&updated, "product_id = ?", req.ProductID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload inventory: %w", err)
	}
	return &updated, nil
}
