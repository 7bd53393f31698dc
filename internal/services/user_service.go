// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UserSearchParams struct {
	utils.PaginationParams
	Role   *models.UserRole
	Status *models.UserStatus
}

type UpdateUserRoleRequest struct {
	Role   models.UserRole    `json:"role" validate:"required,oneof=admin agent customer"`
	Status *models.UserStatus `json:"status" validate:"omitempty,oneof=active suspended"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) ListUsers(params UserSearchParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if params.Search != "" {
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Role != nil {
		query = query.Where("role = ?", *params.Role)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "name", "email", "last_login_at"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// ListCustomers is the customers page: customer-role users with their order
// counts.
func (s *UserService) ListCustomers(params utils.PaginationParams) ([]models.User, int64, error) {
	role := models.UserRoleCustomer
	return s.ListUsers(UserSearchParams{PaginationParams: params, Role: &role})
}

func (s *UserService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// UpdateRole changes a user's role and optionally status. The last admin
// cannot be demoted, so the dashboard can never lock everyone out.
func (s *UserService) UpdateRole(id uuid.UUID, req *UpdateUserRoleRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Role == models.UserRoleAdmin && req.Role != models.UserRoleAdmin {
		var adminCount int64
		if err := s.db.Model(&models.User{}).
			Where("role = ? AND status = ?", models.UserRoleAdmin, models.UserStatusActive).
			Count(&adminCount).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if adminCount <= 1 {
			return nil, errors.New("cannot demote the last active admin")
		}
	}

	updates := map[string]interface{}{"role": req.Role}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.Role = req.Role
	if req.Status != nil {
		user.Status = *req.Status
	}
	return &user, nil
}
