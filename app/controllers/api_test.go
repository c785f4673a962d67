package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/app/routes"
	"github.com/storelane/storelane/pkg/auth"
	"github.com/storelane/storelane/pkg/router"
	"github.com/storelane/storelane/pkg/ws"
)

var apiSeq int

// setupAPI builds the full route table on a fresh in-memory database.
func setupAPI(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	apiSeq++
	dsn := fmt.Sprintf("file:api%d?mode=memory&cache=shared", apiSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))

	r := router.New()
	require.NoError(t, routes.RegisterAPI(r, db, ws.NewHub()))
	return r.Handler(), db
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func signin(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seedAccount(t *testing.T, db *gorm.DB, email, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "Seeded", Email: email, Password: hash, Role: role,
	}).Error)
}

func seedCatalogRow(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	category := models.Category{Name: name + " Category"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		CategoryID:    category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestSignupThenSignin(t *testing.T) {
	h, _ := setupAPI(t)

	rec, _ := do(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate email is a validation failure.
	rec, _ = do(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Alice Again", "email": "alice@example.com", "password": "s3cretpass",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	signin(t, h, "alice@example.com", "s3cretpass")

	rec, _ = do(t, h, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRequiresAuth(t *testing.T) {
	h, _ := setupAPI(t)

	rec, _ := do(t, h, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartCheckoutFlow(t *testing.T) {
	h, db := setupAPI(t)
	product := seedCatalogRow(t, db, "Headphones", "89.99", 10)
	seedAccount(t, db, "alice@example.com", "s3cretpass", models.RoleUser)
	token := signin(t, h, "alice@example.com", "s3cretpass")

	rec, env := do(t, h, http.MethodPost,
		fmt.Sprintf("/api/cart/add?productId=%d&quantity=2", product.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart struct {
		Items []struct {
			ID       uint `json:"id"`
			Quantity int  `json:"quantity"`
		} `json:"items"`
		TotalItems int             `json:"totalItems"`
		TotalPrice decimal.Decimal `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("179.98")))

	rec, env = do(t, h, http.MethodPut,
		fmt.Sprintf("/api/cart/update/%d?quantity=3", cart.Items[0].ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 3, cart.Items[0].Quantity)

	rec, env = do(t, h, http.MethodPost, "/api/orders/checkout", token, map[string]string{
		"shippingAddress": "1 Main St", "paymentMethod": "CARD",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var order struct {
		ID        uint   `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, "PENDING", order.Status)

	// Cart is empty after checkout.
	rec, env = do(t, h, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Empty(t, cart.Items)

	// Checking out again fails on the empty cart.
	rec, _ = do(t, h, http.MethodPost, "/api/orders/checkout", token, map[string]string{
		"shippingAddress": "1 Main St", "paymentMethod": "CARD",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The order shows up in the history.
	rec, env = do(t, h, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)
}

func TestOrderStatusIsAdminOnly(t *testing.T) {
	h, db := setupAPI(t)
	product := seedCatalogRow(t, db, "Headphones", "89.99", 10)
	seedAccount(t, db, "alice@example.com", "s3cretpass", models.RoleUser)
	seedAccount(t, db, "admin@example.com", "adminsecret", models.RoleAdmin)
	userToken := signin(t, h, "alice@example.com", "s3cretpass")
	adminToken := signin(t, h, "admin@example.com", "adminsecret")

	rec, _ := do(t, h, http.MethodPost,
		fmt.Sprintf("/api/cart/add?productId=%d&quantity=1", product.ID), userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env := do(t, h, http.MethodPost, "/api/orders/checkout", userToken, map[string]string{
		"shippingAddress": "1 Main St", "paymentMethod": "CARD",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var order struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))

	statusPath := fmt.Sprintf("/api/orders/%d/status?status=SHIPPED", order.ID)

	rec, _ = do(t, h, http.MethodPut, statusPath, userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = do(t, h, http.MethodPut, statusPath, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "SHIPPED", updated.Status)

	rec, _ = do(t, h, http.MethodPut,
		fmt.Sprintf("/api/orders/%d/status?status=BOGUS", order.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogReadsArePublicWritesAreNot(t *testing.T) {
	h, db := setupAPI(t)
	product := seedCatalogRow(t, db, "Headphones", "89.99", 10)

	rec, _ := do(t, h, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Headphones", view.Name)

	rec, _ = do(t, h, http.MethodGet, "/api/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/products", "", map[string]any{
		"name": "X", "price": "1.00", "categoryId": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	seedAccount(t, db, "alice@example.com", "s3cretpass", models.RoleUser)
	userToken := signin(t, h, "alice@example.com", "s3cretpass")
	rec, _ = do(t, h, http.MethodPost, "/api/products", userToken, map[string]any{
		"name": "X", "price": "1.00", "categoryId": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductSearchEndpoint(t *testing.T) {
	h, db := setupAPI(t)
	seedCatalogRow(t, db, "Wireless Headphones", "89.99", 10)
	seedCatalogRow(t, db, "Keyboard", "119.00", 10)

	rec, env := do(t, h, http.MethodGet, "/api/products/search?keyword=wireless", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &results))
	assert.Len(t, results, 1)

	rec, _ = do(t, h, http.MethodGet, "/api/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQLCatalogQuery(t *testing.T) {
	h, db := setupAPI(t)
	seedCatalogRow(t, db, "Headphones", "89.99", 10)

	body := map[string]string{"query": `{ products { id name price stockQuantity } }`}
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Data struct {
			Products []struct {
				Name  string `json:"name"`
				Price string `json:"price"`
			} `json:"products"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Empty(t, result.Errors)
	require.Len(t, result.Data.Products, 1)
	assert.Equal(t, "Headphones", result.Data.Products[0].Name)
	assert.Equal(t, "89.99", result.Data.Products[0].Price)
}
