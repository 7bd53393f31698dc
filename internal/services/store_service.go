// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

var ErrStoreNotFound = errors.New("store not found")

type StoreService struct {
	db *gorm.DB
}

type UpdateStoreRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Address       *string  `json:"address" validate:"omitempty,max=512"`
	IsOpen        *bool    `json:"is_open"`
	DeliveryZones []string `json:"delivery_zones"`
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

func (s *StoreService) ListStores(params utils.PaginationParams) ([]models.Store, int64, error) {
	query := s.db.Model(&models.Store{})

	if params.Search != "" {
		query = query.Where("name LIKE ? OR address LIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	var stores []models.Store
	err := utils.ApplyPagination(query.Order("name asc"), params).Find(&stores).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}

	return stores, total, nil
}

func (s *StoreService) GetStore(id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := s.db.First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *StoreService) UpdateStore(id uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var store models.Store
	err := s.db.First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.IsOpen != nil {
		store.IsOpen = *req.IsOpen
	}
	if req.DeliveryZones != nil {
		store.DeliveryZones = pq.StringArray(req.DeliveryZones)
	}

	if err := s.db.Save(&store).Error; err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	return &store, nil
}
