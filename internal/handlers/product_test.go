// internal/handlers/product_test.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/freshcart/freshcart-backend/internal/config"
	"github.com/freshcart/freshcart-backend/internal/models"
	"github.com/freshcart/freshcart-backend/internal/services"
)

type stubImageStore struct {
	err error
}

func (s *stubImageStore) UploadProductImage(productID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*services.UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	key := "products/" + productID.String() + "/image.jpg"
	return &services.UploadResult{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (s *stubImageStore) DeleteFile(key string) error { return nil }

type emptyCatalog struct{}

func (emptyCatalog) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return nil, nil
}

func newProductTestRouter(t *testing.T, store services.ImageStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Inventory{}))

	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)
	barcodeService := services.NewBarcodeService(emptyCatalog{}, config.BarcodeConfig{
		BaseURL:        "http://unused.invalid",
		TimeoutSeconds: 1,
	}, quiet)

	handler := NewProductHandler(services.NewProductService(db, store), barcodeService)

	r := gin.New()
	r.POST("/products", handler.CreateProduct)
	r.POST("/products/barcode-lookup", handler.BarcodeLookup)
	return r
}

func TestBarcodeLookupBlankBarcodeIsBadRequest(t *testing.T) {
	r := newProductTestRouter(t, &stubImageStore{})

	req := httptest.NewRequest(http.MethodPost, "/products/barcode-lookup",
		strings.NewReader(`{"barcode":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductUploadFailureIsBadGateway(t *testing.T) {
	r := newProductTestRouter(t, &stubImageStore{err: errors.New("bucket unavailable")})

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("data", `{"name":"Gala Apple","price":3.2}`))
	part, err := form.CreateFormFile("image", "apple.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegbytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/products", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCreateProductValidationFailureIsBadRequest(t *testing.T) {
	r := newProductTestRouter(t, &stubImageStore{})

	req := httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"name":"X","price":0}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductJSONBody(t *testing.T) {
	r := newProductTestRouter(t, &stubImageStore{})

	req := httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"name":"Basmati Rice","unit":"kg","price":100,"discount_percent":20}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"discount_price":80`)
}
