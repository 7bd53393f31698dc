// internal/handlers/inventory.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/freshcart/freshcart-backend/internal/i18n"
	"github.com/freshcart/freshcart-backend/internal/services"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GET /inventory
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rows, total, err := h.inventoryService.ListInventory(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(rows, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	rows, err := h.inventoryService.ListLowStock()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"inventory": rows})
}

// PUT /inventory
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	row, err := h.inventoryService.UpdateStock(&req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyInventoryUpdated),
		"inventory": row,
	})
}
