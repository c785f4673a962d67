package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is deliberately an open string enum: PENDING is the only status
// an order is born with; everything after that is set by administrators.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// KnownOrderStatuses lists the statuses accepted by the status-update endpoint.
var KnownOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus maps a raw string onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, known := range KnownOrderStatuses {
		if string(known) == s {
			return known, true
		}
	}
	return "", false
}

// Order is the immutable snapshot produced by checkout. Only Status changes
// after creation; orders are never deleted.
type Order struct {
	gorm.Model
	Reference       string          `gorm:"uniqueIndex;size:64;not null" json:"reference"`
	UserID          uint            `gorm:"not null;index" json:"userId"`
	OrderDate       time.Time       `gorm:"not null;index" json:"orderDate"`
	Status          OrderStatus     `gorm:"size:20;not null;default:PENDING" json:"status"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"size:100;not null" json:"paymentMethod"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem captures the unit price at the moment of checkout. It must not
// follow later Product price changes.
type OrderItem struct {
	gorm.Model
	OrderID   uint            `gorm:"not null;index" json:"orderId"`
	ProductID uint            `gorm:"not null" json:"productId"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
