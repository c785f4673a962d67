package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/event"
	"github.com/storelane/storelane/pkg/logger"
	"github.com/storelane/storelane/pkg/response"
	"github.com/storelane/storelane/pkg/ws"
)

// OrderController exposes the order endpoints:
//
//	GET  /api/orders
//	GET  /api/orders/{id}
//	POST /api/orders/checkout
//	PUT  /api/orders/{id}/status?status=   (admin)
//	GET  /api/orders/stream                (admin live feed)
type OrderController struct {
	orders *services.OrderService
	feed   *ws.Hub
}

func NewOrderController(orders *services.OrderService, feed *ws.Hub) *OrderController {
	return &OrderController{orders: orders, feed: feed}
}

type checkoutInput struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	PaymentMethod   string `json:"paymentMethod"   validate:"required"`
}

func (c *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	orders, err := c.orders.UserOrders(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	orderID, okID := uintParam(r, "id")
	if !okID {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := c.orders.OrderByID(userID, orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input checkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := c.orders.Checkout(userID, input.ShippingAddress, input.PaymentMethod)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("order placed",
		"order_id", order.ID,
		"reference", order.Reference,
		"total", order.TotalAmount.String(),
	)
	event.FireAsync(services.EventOrderPlaced, services.OrderPlaced{UserID: userID, Order: order})

	response.Success(w, order)
}

func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, okID := uintParam(r, "id")
	if !okID {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	status, known := models.ParseOrderStatus(r.URL.Query().Get("status"))
	if !known {
		response.Error(w, http.StatusBadRequest, "invalid order status")
		return
	}

	order, err := c.orders.UpdateStatus(orderID, status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, order)
}

// Stream upgrades the connection to a WebSocket carrying order-placed events.
func (c *OrderController) Stream(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.feed)
}
