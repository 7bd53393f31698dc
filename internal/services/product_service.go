// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/pricing"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageUpload     = errors.New("image upload failed")
)

type ProductService struct {
	db      *gorm.DB
	storage ImageStore
}

type CreateProductRequest struct {
	ID              *uuid.UUID `json:"id"`
	Name            string     `json:"name" validate:"required,min=2,max=255"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Unit            string     `json:"unit" validate:"omitempty,unit"`
	Price           float64    `json:"price" validate:"required,min=0.01"`
	DiscountPercent *int       `json:"discount_percent" validate:"omitempty,min=0,max=100"`
	DiscountPrice   *float64   `json:"discount_price" validate:"omitempty,min=0"`
	Quantity        string     `json:"quantity" validate:"max=50"`
	Barcode         string     `json:"barcode" validate:"max=64"`
	ImageURL        string     `json:"image_url" validate:"omitempty,url"`
	Stock           int        `json:"stock" validate:"min=0"`
	IsActive        *bool      `json:"is_active"`
}

type UpdateProductRequest struct {
	Name            *string    `json:"name" validate:"omitempty,min=2,max=255"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Unit            *string    `json:"unit" validate:"omitempty,unit"`
	Price           *float64   `json:"price" validate:"omitempty,min=0.01"`
	DiscountPercent *int       `json:"discount_percent" validate:"omitempty,min=0,max=100"`
	DiscountPrice   *float64   `json:"discount_price" validate:"omitempty,min=0"`
	ClearDiscount   bool       `json:"clear_discount"`
	Quantity        *string    `json:"quantity" validate:"omitempty,max=50"`
	Barcode         *string    `json:"barcode" validate:"omitempty,max=64"`
	ImageURL        *string    `json:"image_url" validate:"omitempty,url"`
	Stock           *int       `json:"stock" validate:"omitempty,min=0"`
	IsActive        *bool      `json:"is_active"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID
	IsActive   *bool
	Barcode    string
}

// ProductView is a catalog row plus the percent derived from its prices, so
// the dashboard grid never recomputes discounts client-side.
type ProductView struct {
	models.Product
	DiscountPercent *int `json:"discount_percent"`
}

func NewProductService(db *gorm.DB, storage ImageStore) *ProductService {
	return &ProductService{db: db, storage: storage}
}

// CreateProduct persists a new catalog row. When an image file is supplied it
// is uploaded before the insert; a failed upload aborts the whole save and no
// row is written.
func (s *ProductService) CreateProduct(req *CreateProductRequest, image multipart.File, imageHeader *multipart.FileHeader) (*ProductView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	quote := reconcileRequest(req.Price, req.DiscountPercent, req.DiscountPrice)

	product := &models.Product{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Unit:          models.Unit(req.Unit),
		Price:         quote.Price,
		DiscountPrice: quote.Amount,
		Quantity:      req.Quantity,
		Barcode:       req.Barcode,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
		IsActive:      true,
	}
	if product.Unit == "" {
		product.Unit = models.UnitPieces
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	// The object key embeds the product id, so assign it ahead of the
	// insert and upload first. A storage failure must leave no catalog row.
	// The dashboard may pre-generate the id for the same reason.
	if req.ID != nil {
		product.ID = *req.ID
	} else {
		product.ID = uuid.New()
	}
	if image != nil && imageHeader != nil {
		result, err := s.storage.UploadProductImage(product.ID, image, imageHeader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		product.ImageURL = result.URL
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		inv := &models.Inventory{ProductID: product.ID, Stock: req.Stock}
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("failed to create inventory row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").First(product, "id = ?", product.ID)
	return s.toView(product), nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*ProductView, error) {
	var product models.Product
	err := s.db.Preload("Category").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return s.toView(&product), nil
}

func (s *ProductService) ListProducts(params ProductSearchParams) ([]ProductView, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}
	if params.Barcode != "" {
		query = query.Where("barcode = ?", params.Barcode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "name", "price", "stock"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Preload("Category").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *s.toView(&products[i]))
	}
	return views, total, nil
}

// UpdateProduct applies a partial update. Discount fields go through the same
// reconciliation as the dashboard form: an edited percent drives the amount,
// an edited amount drives the percent, and a price change re-derives whichever
// side the request left alone.
func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*ProductView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	err := s.db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Unit != nil {
		product.Unit = models.Unit(*req.Unit)
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	// The stored percent is derived from (price, discount_price), the same
	// way the edit dialog seeds its form. A bare price edit therefore keeps
	// that percent and recomputes the amount from it.
	quote := pricing.Quote{
		Price:  product.Price,
		Amount: product.DiscountPrice,
	}
	if quote.Amount != nil {
		quote.Driver = pricing.DriverPercent
		quote.Percent = pricing.DiscountPercent(quote.Price, quote.Amount)
	}

	switch {
	case req.ClearDiscount:
		quote.Percent = nil
		quote.Amount = nil
		quote = pricing.Reconcile(quote, pricing.FieldPercent)
		if req.Price != nil {
			quote.Price = *req.Price
		}
		quote.Amount = nil
	case req.DiscountPercent != nil:
		if req.Price != nil {
			quote.Price = *req.Price
		}
		quote.Percent = req.DiscountPercent
		quote = pricing.Reconcile(quote, pricing.FieldPercent)
	case req.DiscountPrice != nil:
		if req.Price != nil {
			quote.Price = *req.Price
		}
		quote.Amount = req.DiscountPrice
		quote = pricing.Reconcile(quote, pricing.FieldAmount)
	case req.Price != nil:
		quote.Price = *req.Price
		quote = pricing.Reconcile(quote, pricing.FieldPrice)
	}

	product.Price = quote.Price
	product.DiscountPrice = quote.Amount

	if err := s.db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if req.Stock != nil {
		if err := s.db.Model(&models.Inventory{}).Where("product_id = ?", id).
			Update("stock", *req.Stock).Error; err != nil {
			return nil, fmt.Errorf("failed to sync inventory: %w", err)
		}
		product.Stock = *req.Stock
		s.db.Model(&models.Product{}).Where("id = ?", id).Update("stock", *req.Stock)
	}

	s.db.Preload("Category").First(&product, "id = ?", id)
	return s.toView(&product), nil
}

// SetActive toggles catalog visibility without touching anything else.
func (s *ProductService) SetActive(id uuid.UUID, active bool) (*ProductView, error) {
	var product models.Product
	err := s.db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&product).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	product.IsActive = active
	return s.toView(&product), nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	result := s.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UploadImage uploads an image for an existing product and stores its URL.
// The previous object, if any, is removed from the bucket best-effort once the
// new URL is persisted.
func (s *ProductService) UploadImage(id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	var product models.Product
	err := s.db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	result, err := s.storage.UploadProductImage(id, file, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	previousURL := product.ImageURL
	if err := s.db.Model(&product).Update("image_url", result.URL).Error; err != nil {
		return nil, fmt.Errorf("failed to store image url: %w", err)
	}

	if key := objectKeyFromURL(previousURL); key != "" && key != result.Key {
		if err := s.storage.DeleteFile(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to delete replaced product image")
		}
	}

	return result, nil
}

// objectKeyFromURL recovers the bucket key from a public image URL. Empty when
// the URL does not point at our products/ prefix (e.g. an external image from
// a barcode lookup).
func objectKeyFromURL(url string) string {
	if i := strings.Index(url, "products/"); i >= 0 {
		return url[i:]
	}
	return ""
}

func (s *ProductService) toView(p *models.Product) *ProductView {
	return &ProductView{
		Product:         *p,
		DiscountPercent: pricing.DiscountPercent(p.Price, p.DiscountPrice),
	}
}

// reconcileRequest builds the stored discount amount for a create request.
// A supplied percent wins over a supplied amount.
func reconcileRequest(price float64, percent *int, amount *float64) pricing.Quote {
	quote := pricing.Quote{Price: price, Percent: percent, Amount: amount}
	switch {
	case percent != nil:
		quote = pricing.Reconcile(quote, pricing.FieldPercent)
	case amount != nil:
		quote = pricing.Reconcile(quote, pricing.FieldAmount)
	}
	return quote
}
