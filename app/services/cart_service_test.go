package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/errs"
)

func TestAddToCartCreatesThenIncrements(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	cart, err := carts.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = carts.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product must merge into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.TotalItems, "TotalItems counts lines, not units")
	assert.True(t, cart.TotalPrice.Equal(mustDecimal(t, "449.95")), "got %s", cart.TotalPrice)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	_, err := carts.AddToCart(user.ID, product.ID, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = carts.AddToCart(user.ID, product.ID, -1)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	_, err := carts.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAddToCartInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 3)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	_, err := carts.AddToCart(user.ID, product.ID, 4)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
}

// Stock is checked against the live catalogue, not reduced by other carts.
// Two users can both hold the last units; checkout settles the race.
func TestAddToCartDoesNotReserveStock(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 5)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	carts := services.NewCartService(db)

	_, err := carts.AddToCart(alice.ID, product.ID, 5)
	require.NoError(t, err)

	_, err = carts.AddToCart(bob.ID, product.ID, 5)
	assert.NoError(t, err, "carted quantities must not reserve stock")
}

func TestUpdateItemOverwritesQuantity(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	cart, err := carts.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err = carts.UpdateItem(user.ID, cart.Items[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	_, err = carts.UpdateItem(user.ID, cart.Items[0].ID, 11)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
}

func TestUpdateItemZeroQuantityDeletesLine(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	cart, err := carts.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err = carts.UpdateItem(user.ID, cart.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
}

func TestCartLineOwnership(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	carts := services.NewCartService(db)

	cart, err := carts.AddToCart(alice.ID, product.ID, 2)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	// A foreign line is Forbidden, a missing line is NotFound.
	_, err = carts.UpdateItem(bob.ID, lineID, 1)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = carts.RemoveItem(bob.ID, lineID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = carts.UpdateItem(bob.ID, 9999, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRemoveItemAndClear(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	first := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	second := seedProduct(t, db, category.ID, "Keyboard", "119.00", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)

	cart, err := carts.AddToCart(user.ID, first.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(user.ID, second.ID, 1)
	require.NoError(t, err)

	cart, err = carts.RemoveItem(user.ID, cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, second.ID, cart.Items[0].ProductID)

	require.NoError(t, carts.Clear(user.ID))
	require.NoError(t, carts.Clear(user.ID), "clearing an empty cart succeeds")

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
