package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/errs"
)

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Books")
	catalog := services.NewCatalogService(db)

	view, err := catalog.CreateProduct(services.ProductInput{
		Name:          "The Go Programming Language",
		Description:   "Donovan & Kernighan",
		Price:         "44.99",
		StockQuantity: 12,
		CategoryID:    category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Books", view.CategoryName)
	assert.True(t, view.Price.Equal(mustDecimal(t, "44.99")))

	fetched, err := catalog.ProductByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Name, fetched.Name)
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Books")
	catalog := services.NewCatalogService(db)

	_, err := catalog.CreateProduct(services.ProductInput{
		Name: "X", Price: "not-a-number", CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = catalog.CreateProduct(services.ProductInput{
		Name: "X", Price: "-1.00", CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = catalog.CreateProduct(services.ProductInput{
		Name: "X", Price: "1.00", CategoryID: 9999,
	})
	assert.ErrorIs(t, err, errs.ErrNotFound, "unknown category must fail the create")
}

func TestUpdateProductMovesCategory(t *testing.T) {
	db := newTestDB(t)
	books := seedCategory(t, db, "Books")
	games := seedCategory(t, db, "Games")
	product := seedProduct(t, db, books.ID, "Chess Set", "25.00", 5)
	catalog := services.NewCatalogService(db)

	view, err := catalog.UpdateProduct(product.ID, services.ProductInput{
		Name:          "Chess Set",
		Price:         "29.00",
		StockQuantity: 5,
		CategoryID:    games.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, games.ID, view.CategoryID)
	assert.True(t, view.Price.Equal(mustDecimal(t, "29.00")))

	_, err = catalog.UpdateProduct(9999, services.ProductInput{
		Name: "X", Price: "1.00", CategoryID: books.ID,
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProductsByCategory(t *testing.T) {
	db := newTestDB(t)
	books := seedCategory(t, db, "Books")
	games := seedCategory(t, db, "Games")
	seedProduct(t, db, books.ID, "Novel", "10.00", 5)
	seedProduct(t, db, books.ID, "Biography", "12.00", 5)
	seedProduct(t, db, games.ID, "Chess Set", "25.00", 5)
	catalog := services.NewCatalogService(db)

	views, err := catalog.ProductsByCategory(books.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	_, err = catalog.ProductsByCategory(9999)
	assert.ErrorIs(t, err, errs.ErrNotFound, "listing an unknown category is NotFound, not an empty list")
}

func TestSearchProductsMatchesNameAndDescription(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	seedProduct(t, db, category.ID, "Wireless Headphones", "89.99", 5)
	seedProduct(t, db, category.ID, "Keyboard", "119.00", 5)
	catalog := services.NewCatalogService(db)

	views, err := catalog.SearchProducts("wireless")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Wireless Headphones", views[0].Name)

	// seedProduct writes "<name> description".
	views, err = catalog.SearchProducts("Keyboard description")
	require.NoError(t, err)
	assert.Len(t, views, 1)

	views, err = catalog.SearchProducts("no-such-thing")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestAllProductsPagination(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Books")
	for i := 0; i < 5; i++ {
		seedProduct(t, db, category.ID, "Book", "10.00", 1)
	}
	catalog := services.NewCatalogService(db)

	views, pagination, err := catalog.AllProducts(2, 2)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, int64(5), pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)

	views, _, err = catalog.AllProducts(3, 2)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Books")
	product := seedProduct(t, db, category.ID, "Novel", "10.00", 5)
	catalog := services.NewCatalogService(db)

	err := catalog.DeleteCategory(category.ID)
	assert.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, catalog.DeleteProduct(product.ID))
	require.NoError(t, catalog.DeleteCategory(category.ID))

	// The name is free again after the delete.
	_, err = catalog.CreateCategory("Books")
	assert.NoError(t, err)
}

func TestSetProductImage(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Books")
	product := seedProduct(t, db, category.ID, "Novel", "10.00", 5)
	catalog := services.NewCatalogService(db)

	view, err := catalog.SetProductImage(product.ID, "https://cdn.example.com/novel.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/novel.jpg", view.ImageURL)

	_, err = catalog.SetProductImage(9999, "https://cdn.example.com/x.jpg")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
