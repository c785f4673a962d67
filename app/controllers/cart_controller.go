package controllers

import (
	"net/http"

	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/response"
)

// CartController exposes the cart endpoints. Every route requires an
// authenticated user; query-parameter shapes follow the public API:
//
//	GET    /api/cart
//	POST   /api/cart/add?productId=&quantity=
//	PUT    /api/cart/update/{cartItemId}?quantity=
//	DELETE /api/cart/remove/{cartItemId}
//	DELETE /api/cart/clear
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	cart, err := c.carts.GetCart(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	productID, okID := intQuery(r, "productId", 0)
	quantity, okQty := intQuery(r, "quantity", 0)
	if !okID || !okQty || productID <= 0 {
		response.Error(w, http.StatusBadRequest, "productId and quantity are required")
		return
	}

	cart, err := c.carts.AddToCart(userID, uint(productID), quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	itemID, okItem := uintParam(r, "cartItemId")
	if !okItem {
		response.Error(w, http.StatusBadRequest, "invalid cart item id")
		return
	}
	quantity, okQty := intQuery(r, "quantity", 0)
	if !okQty || r.URL.Query().Get("quantity") == "" {
		response.Error(w, http.StatusBadRequest, "quantity is required")
		return
	}

	cart, err := c.carts.UpdateItem(userID, itemID, quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	itemID, okItem := uintParam(r, "cartItemId")
	if !okItem {
		response.Error(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	cart, err := c.carts.RemoveItem(userID, itemID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := c.carts.Clear(userID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
