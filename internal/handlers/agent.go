// internal/handlers/agent.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/freshcart/freshcart-backend/internal/i18n"
	"github.com/freshcart/freshcart-backend/internal/services"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

type AgentHandler struct {
	agentService *services.AgentService
}

func NewAgentHandler(agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// GET /agents
func (h *AgentHandler) GetAgents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	agents, total, err := h.agentService.ListAgents(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(agents, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /agents
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	agent, err := h.agentService.CreateAgent(&req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAgentCreated),
		"agent":   agent,
	})
}

// PUT /agents/:id
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid agent ID", nil)
		return
	}

	var req services.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	agent, err := h.agentService.UpdateAgent(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			utils.NotFoundResponse(c, i18n.KeyAgentNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAgentUpdated),
		"agent":   agent,
	})
}

// POST /agents/:id/location
func (h *AgentHandler) RecordLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid agent ID", nil)
		return
	}

	var req struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "latitude and longitude are required", nil)
		return
	}

	if err := h.agentService.RecordLocation(id, *req.Latitude, *req.Longitude); err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			utils.NotFoundResponse(c, i18n.KeyAgentNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"recorded": true})
}
