// internal/services/category_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/freshcart-backend/internal/models"
)

func TestCreateAndListCategories(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	_, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Snacks"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(&CreateCategoryRequest{Name: "Beverages", IsActive: boolPtr(false)})
	require.NoError(t, err)

	all, err := svc.ListCategories(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Beverages", all[0].Name, "categories come back in name order")

	active, err := svc.ListCategories(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Snacks", active[0].Name)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	_, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Dairy"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(&CreateCategoryRequest{Name: "Dairy"})
	assert.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestUpdateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	created, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Houshold"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(created.ID, &UpdateCategoryRequest{
		Name:     strPtr("Household"),
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Household", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateCategory(uuid.New(), &UpdateCategoryRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategoryNameCollision(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	_, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Fruits"})
	require.NoError(t, err)
	other, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Vegetables"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(other.ID, &UpdateCategoryRequest{Name: strPtr("Fruits")})
	assert.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestDeleteCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	empty, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Seasonal"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(empty.ID))

	_, err = svc.UpdateCategory(empty.ID, &UpdateCategoryRequest{Name: strPtr("Gone")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	category, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Bakery"})
	require.NoError(t, err)

	product := createTestProduct(t, db, "Sourdough", 6, 8)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("category_id", category.ID).Error)

	assert.ErrorIs(t, svc.DeleteCategory(category.ID), ErrCategoryInUse)
}
