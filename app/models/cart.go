package models

import "time"

// CartItem is one line of a user's cart. The composite unique index enforces
// at most one line per (user, product) pair — adding the same product again
// increments the quantity instead of inserting a second row.
//
// Cart lines are deleted for real (no DeletedAt): a soft-deleted row would
// still occupy the unique index and block re-adding the product.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}
