// internal/services/agent_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

type AgentService struct {
	db *gorm.DB
}

type CreateAgentRequest struct {
	UserID *uuid.UUID `json:"user_id"`
	Name   string     `json:"name" validate:"required_without=UserID,omitempty,min=2,max=255"`
	Email  string     `json:"email" validate:"required_without=UserID,omitempty,email"`
	Phone  string     `json:"phone" validate:"max=32"`
}

type UpdateAgentRequest struct {
	IsAvailable *bool `json:"is_available"`
}

func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{db: db}
}

func (s *AgentService) ListAgents(params utils.PaginationParams) ([]models.DeliveryAgent, int64, error) {
	query := s.db.Model(&models.DeliveryAgent{})

	if params.Search != "" {
		query = query.Joins("JOIN users ON users.id = delivery_agents.user_id").
			Where("users.name LIKE ? OR users.phone LIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count agents: %w", err)
	}

	var agents []models.DeliveryAgent
	err := utils.ApplyPagination(query.Order("created_at desc"), params).
		Preload("User").
		Preload("Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at DESC")
		}).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Find(&agents).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list agents: %w", err)
	}

	return agents, total, nil
}

// CreateAgent enrolls a courier. Either an existing user is promoted, or a
// fresh agent user is created with a placeholder password the courier resets
// on first login.
func (s *AgentService) CreateAgent(req *CreateAgentRequest) (*models.DeliveryAgent, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var agent models.DeliveryAgent

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User

		if req.UserID != nil {
			if err := tx.First(&user, "id = ?", *req.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}
		} else {
			user = models.User{
				Name:   req.Name,
				Email:  req.Email,
				Phone:  req.Phone,
				Role:   models.UserRoleAgent,
				Status: models.UserStatusActive,
			}
			if err := user.SetPassword(uuid.NewString()); err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create agent user: %w", err)
			}
		}

		var existing models.DeliveryAgent
		err := tx.Where("user_id = ?", user.ID).First(&existing).Error
		if err == nil {
			return errors.New("user is already a delivery agent")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if user.Role != models.UserRoleAgent {
			if err := tx.Model(&user).Update("role", models.UserRoleAgent).Error; err != nil {
				return fmt.Errorf("failed to update user role: %w", err)
			}
		}

		agent = models.DeliveryAgent{
			UserID:      &user.ID,
			IsAvailable: true,
		}
		if err := tx.Create(&agent).Error; err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&agent, "id = ?", agent.ID)
	return &agent, nil
}

func (s *AgentService) UpdateAgent(id uuid.UUID, req *UpdateAgentRequest) (*models.DeliveryAgent, error) {
	var agent models.DeliveryAgent
	err := s.db.First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.IsAvailable != nil {
		if err := s.db.Model(&agent).Update("is_available", *req.IsAvailable).Error; err != nil {
			return nil, fmt.Errorf("failed to update agent: %w", err)
		}
		agent.IsAvailable = *req.IsAvailable
	}

	s.db.Preload("User").First(&agent, "id = ?", id)
	return &agent, nil
}

// RecordLocation stores a position ping from the courier app.
func (s *AgentService) RecordLocation(agentID uuid.UUID, lat, lng float64) error {
	var agent models.DeliveryAgent
	err := s.db.First(&agent, "id = ?", agentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAgentNotFound
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	loc := &models.AgentLocation{
		ID:         uuid.New(),
		AgentID:    agentID,
		Latitude:   lat,
		Longitude:  lng,
		RecordedAt: time.Now(),
	}
	if err := s.db.Create(loc).Error; err != nil {
		return fmt.Errorf("failed to record location: %w", err)
	}
	return nil
}
