package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storelane/storelane/app/models"
)

// View types are the JSON shapes returned to controllers. They flatten the
// product fields a client needs alongside each line so the frontend never has
// to join catalogue data itself.

type ProductView struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    uint            `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
}

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CartItemView struct {
	ID              uint            `json:"id"`
	ProductID       uint            `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	ProductPrice    decimal.Decimal `json:"productPrice"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// CartView is the refreshed cart returned by every cart operation.
// TotalItems counts distinct lines, not summed quantities.
type CartView struct {
	Items      []CartItemView  `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type OrderItemView struct {
	ID              uint            `json:"id"`
	ProductID       uint            `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	ID              uint               `json:"id"`
	Reference       string             `json:"reference"`
	OrderDate       time.Time          `json:"orderDate"`
	Status          models.OrderStatus `json:"status"`
	ShippingAddress string             `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Items           []OrderItemView    `json:"items"`
}

func productView(p models.Product, categoryName string) ProductView {
	return ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		CategoryName:  categoryName,
	}
}

func subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
