// internal/handlers/product.go
package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/freshcart/freshcart-backend/internal/i18n"
	"github.com/freshcart/freshcart-backend/internal/services"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	barcodeService *services.BarcodeService
}

func NewProductHandler(productService *services.ProductService, barcodeService *services.BarcodeService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		barcodeService: barcodeService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
		Barcode:          c.Query("barcode"),
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			searchParams.CategoryID = &categoryID
		}
	}

	if activeStr := c.Query("is_active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			searchParams.IsActive = &active
		}
	}

	products, total, err := h.productService.ListProducts(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /products
//
// Accepts either a JSON body, or multipart/form-data with a "data" JSON field
// plus an optional "image" file. The upload completes before any row is
// written; a storage failure aborts the create.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest

	contentType := c.ContentType()
	isMultipart := contentType == "multipart/form-data"

	if isMultipart {
		data := c.PostForm("data")
		if data == "" {
			utils.BadRequestResponse(c, "data field is required", nil)
			return
		}
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	var (
		file   multipart.File
		header *multipart.FileHeader
	)
	if isMultipart {
		if f, h, err := c.Request.FormFile("image"); err == nil {
			defer f.Close()
			file, header = f, h
		}
	}

	product, err := h.productService.CreateProduct(&req, file, header)
	if err != nil {
		h.writeSaveError(c, lang, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// writeSaveError maps a product save failure onto the error taxonomy:
// validation problems are the client's (400), a storage failure is the
// bucket's (502), anything else is ours (500).
func (h *ProductHandler) writeSaveError(c *gin.Context, lang string, err error) {
	if validationErrors := utils.GetValidationErrors(err); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}
	if errors.Is(err, services.ErrImageUpload) {
		utils.BadGatewayResponse(c, "UPLOAD_FAILED", i18n.T(lang, i18n.KeyFileUploadFailed)+": "+err.Error())
		return
	}
	utils.InternalErrorResponse(c, err.Error())
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		h.writeSaveError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// PUT /products/:id/active
func (h *ProductHandler) SetActive(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "is_active is required", nil)
		return
	}

	product, err := h.productService.SetActive(id, *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /products/barcode-lookup
func (h *ProductHandler) BarcodeLookup(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		Barcode string                 `json:"barcode" binding:"required"`
		Draft   *services.ProductDraft `json:"draft"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "barcode is required", nil)
		return
	}

	draft, err := h.barcodeService.Resolve(c.Request.Context(), req.Barcode, req.Draft)
	if err != nil {
		if errors.Is(err, services.ErrBarcodeRequired) {
			utils.BadRequestResponse(c, "barcode is required", nil)
			return
		}
		utils.BadGatewayResponse(c, "BARCODE_LOOKUP_FAILED", i18n.T(lang, i18n.KeyBarcodeFailed))
		return
	}

	messageKey := i18n.KeyBarcodeFound
	if draft.Source == services.SourceNotFound {
		messageKey = i18n.KeyBarcodeNotFound
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"draft":   draft,
	})
}

// POST /products/upload-image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.PostForm("product_id"))
	if err != nil {
		utils.BadRequestResponse(c, "product_id is required", nil)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "image file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.productService.UploadImage(productID, file, header)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		if errors.Is(err, services.ErrImageUpload) {
			utils.BadGatewayResponse(c, "UPLOAD_FAILED", i18n.T(lang, i18n.KeyFileUploadFailed)+": "+err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"upload":  result,
	})
}
