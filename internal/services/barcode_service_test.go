// internal/services/barcode_service_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/freshcart-backend/internal/config"
	"github.com/freshcart/freshcart-backend/internal/models"
)

type stubCatalog struct {
	product *models.Product
	err     error
	calls   int
}

func (s *stubCatalog) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	s.calls++
	return s.product, s.err
}

func newTestBarcodeService(catalog CatalogLookup, baseURL string) *BarcodeService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewBarcodeService(catalog, config.BarcodeConfig{BaseURL: baseURL, TimeoutSeconds: 5}, logger)
}

func offServer(t *testing.T, status int, body string, hits *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveCatalogHitIsTerminal(t *testing.T) {
	hits := 0
	server := offServer(t, http.StatusOK, `{"status":1,"product":{"product_name":"External Milk"}}`, &hits)

	catalog := &stubCatalog{product: &models.Product{
		Name:     "Local Milk",
		Price:    3.50,
		Barcode:  "4006381333931",
		ImageURL: "https://cdn.test/milk.jpg",
	}}
	svc := newTestBarcodeService(catalog, server.URL)

	draft, err := svc.Resolve(context.Background(), "4006381333931", nil)
	require.NoError(t, err)
	assert.Equal(t, "Local Milk", draft.Name)
	require.NotNil(t, draft.Price)
	assert.Equal(t, 3.50, *draft.Price)
	assert.Equal(t, "https://cdn.test/milk.jpg", draft.ImageURL)
	assert.Equal(t, SourceCatalog, draft.Source)
	assert.Equal(t, 0, hits, "a catalog hit must not reach the external API")
}

func TestResolveKeepsOperatorFields(t *testing.T) {
	server := offServer(t, http.StatusOK,
		`{"status":1,"product":{"product_name":"External Name","image_front_url":"https://images.test/front.jpg"}}`, nil)

	svc := newTestBarcodeService(&stubCatalog{}, server.URL)

	typed := &ProductDraft{Name: "Typed Name"}
	draft, err := svc.Resolve(context.Background(), "400", typed)
	require.NoError(t, err)
	assert.Equal(t, "Typed Name", draft.Name, "resolution must not overwrite what the operator typed")
	assert.Equal(t, "https://images.test/front.jpg", draft.ImageURL)
	assert.Equal(t, SourceExternal, draft.Source)
}

func TestResolveExternalOnly(t *testing.T) {
	server := offServer(t, http.StatusOK,
		`{"status":1,"product":{"product_name_en":"Oat Bar","image_url":"https://images.test/bar.jpg"}}`, nil)

	svc := newTestBarcodeService(&stubCatalog{}, server.URL)

	draft, err := svc.Resolve(context.Background(), "123456", nil)
	require.NoError(t, err)
	assert.Equal(t, "Oat Bar", draft.Name)
	assert.Equal(t, "https://images.test/bar.jpg", draft.ImageURL)
	assert.Equal(t, SourceExternal, draft.Source)
	assert.Equal(t, "123456", draft.Barcode)
	assert.Nil(t, draft.Price, "the external API never supplies a price")
}

func TestResolveNameAliasOrder(t *testing.T) {
	server := offServer(t, http.StatusOK,
		`{"status":1,"product":{"generic_name":"Generic","name":"Plain"}}`, nil)

	svc := newTestBarcodeService(&stubCatalog{}, server.URL)

	draft, err := svc.Resolve(context.Background(), "9", nil)
	require.NoError(t, err)
	assert.Equal(t, "Generic", draft.Name)
}

func TestResolveUnknownBarcode(t *testing.T) {
	server := offServer(t, http.StatusOK, `{"status":0,"status_verbose":"product not found"}`, nil)

	svc := newTestBarcodeService(&stubCatalog{}, server.URL)

	draft, err := svc.Resolve(context.Background(), "000000", &ProductDraft{Name: "Typed"})
	require.NoError(t, err)
	assert.Equal(t, "000000", draft.Barcode)
	assert.Equal(t, "Typed", draft.Name)
	assert.Equal(t, SourceNotFound, draft.Source)
}

func TestResolveLocalErrorFallsThrough(t *testing.T) {
	hits := 0
	server := offServer(t, http.StatusOK, `{"status":1,"product":{"product_name":"Rescue"}}`, &hits)

	catalog := &stubCatalog{err: errors.New("connection refused")}
	svc := newTestBarcodeService(catalog, server.URL)

	draft, err := svc.Resolve(context.Background(), "777", nil)
	require.NoError(t, err)
	assert.Equal(t, "Rescue", draft.Name)
	assert.Equal(t, 1, hits, "external lookup must still run after a local failure")
}

func TestResolveExternalFailure(t *testing.T) {
	server := offServer(t, http.StatusInternalServerError, ``, nil)

	svc := newTestBarcodeService(&stubCatalog{}, server.URL)

	_, err := svc.Resolve(context.Background(), "500500", nil)
	require.Error(t, err)
}

func TestResolveEmptyBarcode(t *testing.T) {
	svc := newTestBarcodeService(&stubCatalog{}, "http://unused.invalid")

	_, err := svc.Resolve(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrBarcodeRequired)

	_, err = svc.Resolve(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrBarcodeRequired)
}

func TestResolveTrimsBarcode(t *testing.T) {
	server := offServer(t, http.StatusOK, `{"status":0}`, nil)

	svc := newTestBarcodeService(&stubCatalog{}, server.URL)

	draft, err := svc.Resolve(context.Background(), "  123  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "123", draft.Barcode)
}

func TestGormCatalogLookup(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "Scanned Apple", 2.50, 10)
	require.NoError(t, db.Model(product).Update("barcode", "1112223334445").Error)

	lookup := NewCatalogLookup(db)

	found, err := lookup.FindByBarcode(context.Background(), "1112223334445")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Scanned Apple", found.Name)

	missing, err := lookup.FindByBarcode(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
