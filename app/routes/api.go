package routes

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/storelane/storelane/app/controllers"
	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/metrics"
	"github.com/storelane/storelane/pkg/middleware"
	"github.com/storelane/storelane/pkg/rbac"
	"github.com/storelane/storelane/pkg/router"
	"github.com/storelane/storelane/pkg/ws"
)

// RegisterAPI mounts every HTTP endpoint. Catalogue reads are public; cart
// and order routes require authentication; catalogue writes and order status
// changes additionally require the admin role.
func RegisterAPI(r *router.Router, db *gorm.DB, feed *ws.Hub) error {
	authService := services.NewAuthService(db)
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db)

	authController := controllers.NewAuthController(authService)
	productController := controllers.NewProductController(catalogService)
	categoryController := controllers.NewCategoryController(catalogService)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(orderService, feed)
	graphqlController, err := controllers.NewGraphQLController(catalogService)
	if err != nil {
		return err
	}

	api := r.Group("/api")

	auth := api.Group("/auth", middleware.RateLimit(20, time.Minute))
	auth.Post("/signup", "auth.signup", authController.Signup)
	auth.Post("/signin", "auth.signin", authController.Signin)

	products := api.Group("/products")
	products.Get("", "products.index", productController.GetAll)
	products.Get("/search", "products.search", productController.Search)
	products.Get("/category/{categoryId}", "products.byCategory", productController.GetByCategory)
	products.Get("/{id}", "products.show", productController.GetByID)

	categories := api.Group("/categories")
	categories.Get("", "categories.index", categoryController.GetAll)
	categories.Get("/{id}", "categories.show", categoryController.GetByID)

	admin := api.Group("", middleware.AuthMiddleware, rbac.HasRole(models.RoleAdmin))
	admin.Post("/products", "products.create", productController.Create)
	admin.Put("/products/{id}", "products.update", productController.Update)
	admin.Delete("/products/{id}", "products.delete", productController.Delete)
	admin.Post("/products/{id}/image", "products.image", productController.UploadImage)
	admin.Post("/categories", "categories.create", categoryController.Create)
	admin.Put("/categories/{id}", "categories.update", categoryController.Update)
	admin.Delete("/categories/{id}", "categories.delete", categoryController.Delete)
	admin.Put("/orders/{id}/status", "orders.status", orderController.UpdateOrderStatus)
	admin.Get("/orders/stream", "orders.stream", orderController.Stream)

	cart := api.Group("/cart", middleware.AuthMiddleware)
	cart.Get("", "cart.show", cartController.GetCart)
	cart.Post("/add", "cart.add", cartController.AddToCart)
	cart.Put("/update/{cartItemId}", "cart.update", cartController.UpdateCartItem)
	cart.Delete("/remove/{cartItemId}", "cart.remove", cartController.RemoveFromCart)
	cart.Delete("/clear", "cart.clear", cartController.ClearCart)

	orders := api.Group("/orders", middleware.AuthMiddleware)
	orders.Get("", "orders.index", orderController.GetUserOrders)
	orders.Get("/{id}", "orders.show", orderController.GetOrderByID)
	orders.Post("/checkout", "orders.checkout", orderController.Checkout)

	api.Post("/graphql", "graphql.query", graphqlController.Query)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	return nil
}
