// internal/services/testutil_test.go
package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/freshcart/freshcart-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
		&models.Delivery{},
		&models.DeliveryAgent{},
		&models.AgentLocation{},
	)
	require.NoError(t, err)

	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		Unit:     models.UnitPieces,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	require.NoError(t, db.Create(&models.Inventory{ProductID: product.ID, Stock: stock, LowStockThreshold: 5}).Error)
	return product
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:   "Test " + email,
		Email:  email,
		Role:   role,
		Status: models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Sup3r$ecret"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestAgent(t *testing.T, db *gorm.DB, email string, available bool) *models.DeliveryAgent {
	t.Helper()

	user := createTestUser(t, db, email, models.UserRoleAgent)
	agent := &models.DeliveryAgent{UserID: &user.ID, IsAvailable: available}
	require.NoError(t, db.Create(agent).Error)
	return agent
}

// memFile adapts a byte slice to multipart.File.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func testImageFile(contents, filename string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(contents)),
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/jpeg"}},
	}
	return memFile{bytes.NewReader([]byte(contents))}, header
}

// fakeImageStore records uploads and deletes and lets a test observe ordering
// relative to database writes.
type fakeImageStore struct {
	uploads  []uuid.UUID
	deletes  []string
	err      error
	onUpload func(productID uuid.UUID)
	seq      int
}

func (f *fakeImageStore) UploadProductImage(productID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if f.onUpload != nil {
		f.onUpload(productID)
	}
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, productID)
	f.seq++
	key := fmt.Sprintf("products/%s/image-%d.jpg", productID, f.seq)
	return &UploadResult{
		URL: "https://cdn.test/" + key,
		Key: key,
	}, nil
}

func (f *fakeImageStore) DeleteFile(key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}
