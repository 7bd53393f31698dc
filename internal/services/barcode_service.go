// internal/services/barcode_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/config"
	"github.com/freshcart/freshcart-backend/internal/models"
)

// CatalogLookup finds an existing product by barcode. A nil product with a
// nil error means no match.
type CatalogLookup interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

// Resolution outcomes.
const (
	SourceCatalog  = "catalog"
	SourceExternal = "external"
	SourceNotFound = "not_found"
)

// ErrBarcodeRequired flags an empty (after trimming) barcode. It is the
// caller's input that is wrong, not the lookup pipeline.
var ErrBarcodeRequired = errors.New("barcode is required")

// BarcodeService resolves a scanned barcode into a product draft: the local
// catalog is checked first, then the Open Food Facts API. A local database
// failure is logged and the external lookup still runs.
type BarcodeService struct {
	catalog    CatalogLookup
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// ProductDraft is the prefill the dashboard form receives after a scan. The
// client posts its current draft; resolution fills only the fields the
// operator has not already typed.
type ProductDraft struct {
	Barcode    string     `json:"barcode"`
	Name       string     `json:"name"`
	Price      *float64   `json:"price"`
	CategoryID *uuid.UUID `json:"category_id"`
	ImageURL   string     `json:"image_url"`
	Source     string     `json:"source"` // catalog, external, or not_found
}

// offResponse is the subset of the Open Food Facts payload we read. Name and
// image come in several aliases across the API's versions.
type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName   string `json:"product_name"`
		ProductNameEn string `json:"product_name_en"`
		GenericName   string `json:"generic_name"`
		Name          string `json:"name"`
		ImageFrontURL string `json:"image_front_url"`
		ImageURL      string `json:"image_url"`
		ImageSmallURL string `json:"image_small_url"`
	} `json:"product"`
}

func NewBarcodeService(catalog CatalogLookup, cfg config.BarcodeConfig, logger *logrus.Logger) *BarcodeService {
	return &BarcodeService{
		catalog: catalog,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// Resolve runs the lookup pipeline for a barcode against the client's draft.
// A catalog hit is terminal; the external API is only consulted when the
// catalog has no row for the code. Only an external request failure is an
// error.
func (s *BarcodeService) Resolve(ctx context.Context, barcode string, draft *ProductDraft) (*ProductDraft, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrBarcodeRequired
	}

	merged := &ProductDraft{}
	if draft != nil {
		*merged = *draft
	}
	merged.Barcode = barcode
	merged.Source = SourceNotFound

	product, err := s.catalog.FindByBarcode(ctx, barcode)
	if err != nil {
		s.logger.WithError(err).WithField("barcode", barcode).
			Warn("local barcode lookup failed, falling back to external")
	} else if product != nil {
		MergeDraft(merged, &ProductDraft{
			Name:       product.Name,
			Price:      &product.Price,
			CategoryID: product.CategoryID,
			ImageURL:   product.ImageURL,
			Source:     SourceCatalog,
		})
		return merged, nil
	}

	external, err := s.lookupExternal(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if external != nil {
		MergeDraft(merged, external)
	}

	return merged, nil
}

// lookupExternal queries Open Food Facts. A 404 or status 0 payload means the
// product is unknown, which is not an error.
func (s *BarcodeService) lookupExternal(ctx context.Context, barcode string) (*ProductDraft, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", s.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build barcode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("barcode lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("barcode lookup returned status %d", resp.StatusCode)
	}

	var payload offResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode barcode response: %w", err)
	}

	if payload.Status != 1 {
		return nil, nil
	}

	return &ProductDraft{
		Name:     firstNonEmpty(payload.Product.ProductName, payload.Product.ProductNameEn, payload.Product.GenericName, payload.Product.Name),
		ImageURL: firstNonEmpty(payload.Product.ImageFrontURL, payload.Product.ImageURL, payload.Product.ImageSmallURL),
		Source:   SourceExternal,
	}, nil
}

// MergeDraft fills absent fields of dst from the resolution src. Anything the
// operator already typed stays as it is.
func MergeDraft(dst, src *ProductDraft) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Price == nil {
		dst.Price = src.Price
	}
	if dst.CategoryID == nil {
		dst.CategoryID = src.CategoryID
	}
	if dst.ImageURL == "" {
		dst.ImageURL = src.ImageURL
	}
	dst.Source = src.Source
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// gormCatalogLookup is the production CatalogLookup over the products table.
type gormCatalogLookup struct {
	db *gorm.DB
}

func NewCatalogLookup(db *gorm.DB) CatalogLookup {
	return &gormCatalogLookup{db: db}
}

func (l *gormCatalogLookup) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := l.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
