package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/errs"
)

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	headphones := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	keyboard := seedProduct(t, db, category.ID, "Keyboard", "119.00", 5)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := carts.AddToCart(user.ID, headphones.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(user.ID, keyboard.ID, 1)
	require.NoError(t, err)

	order, err := orders.Checkout(user.ID, "1 Main St", "CARD")
	require.NoError(t, err)

	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	require.Len(t, order.Items, 2)
	assert.True(t, order.TotalAmount.Equal(mustDecimal(t, "298.98")), "got %s", order.TotalAmount)

	// Stock was decremented.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, headphones.ID).Error)
	assert.Equal(t, 8, reloaded.StockQuantity)
	reloaded = models.Product{} // clear the loaded primary key so it is not reused as a query condition
	require.NoError(t, db.First(&reloaded, keyboard.ID).Error)
	assert.Equal(t, 4, reloaded.StockQuantity)

	// Cart was cleared.
	cart, err := carts.GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	orders := services.NewOrderService(db)

	_, err := orders.Checkout(user.ID, "1 Main St", "CARD")
	assert.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestCheckoutValidatesInput(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	orders := services.NewOrderService(db)

	_, err := orders.Checkout(user.ID, "   ", "CARD")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = orders.Checkout(user.ID, "1 Main St", "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

// A failing line must roll back the entire checkout: no order, no partial
// stock decrement, cart untouched.
func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	headphones := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	keyboard := seedProduct(t, db, category.ID, "Keyboard", "119.00", 1)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := carts.AddToCart(user.ID, headphones.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(user.ID, keyboard.ID, 1)
	require.NoError(t, err)

	// Drain the keyboard stock behind the cart's back.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", keyboard.ID).
		Update("stock_quantity", 0).Error)

	_, err = orders.Checkout(user.ID, "1 Main St", "CARD")
	require.ErrorIs(t, err, errs.ErrInsufficientStock)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, headphones.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity, "first line's decrement must roll back")

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	cart, err := carts.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2, "cart must survive a failed checkout")
}

func TestOrderItemsSnapshotPrice(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := carts.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	placed, err := orders.Checkout(user.ID, "1 Main St", "CARD")
	require.NoError(t, err)

	// Reprice the product after the sale.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", mustDecimal(t, "999.00")).Error)

	view, err := orders.OrderByID(user.ID, placed.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].Price.Equal(mustDecimal(t, "89.99")),
		"order must show the price paid, got %s", view.Items[0].Price)
	assert.True(t, view.TotalAmount.Equal(mustDecimal(t, "89.99")))
}

func TestOrderByIDOwnership(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := carts.AddToCart(alice.ID, product.ID, 1)
	require.NoError(t, err)
	placed, err := orders.Checkout(alice.ID, "1 Main St", "CARD")
	require.NoError(t, err)

	_, err = orders.OrderByID(bob.ID, placed.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = orders.OrderByID(bob.ID, 9999)
	assert.ErrorIs(t, err, errs.ErrNotFound, "a missing order is NotFound even for non-owners")
}

func TestUserOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)

	for i := 0; i < 3; i++ {
		_, err := carts.AddToCart(user.ID, product.ID, 1)
		require.NoError(t, err)
		_, err = orders.Checkout(user.ID, "1 Main St", "CARD")
		require.NoError(t, err)
	}

	views, err := orders.UserOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Greater(t, views[0].ID, views[1].ID)
	assert.Greater(t, views[1].ID, views[2].ID)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Headphones", "89.99", 10)
	user := seedUser(t, db, "a@example.com")
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)

	_, err := carts.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	placed, err := orders.Checkout(user.ID, "1 Main St", "CARD")
	require.NoError(t, err)

	view, err := orders.UpdateStatus(placed.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, view.Status)

	_, err = orders.UpdateStatus(9999, models.OrderStatusShipped)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
