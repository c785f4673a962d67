package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products. A product always belongs to exactly one category.
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
}

// Product is a sellable catalogue entry. Price is a fixed-point decimal —
// money never goes through float64. StockQuantity is only ever decremented
// at checkout commit.
type Product struct {
	gorm.Model
	Name          string          `gorm:"size:255;not null;index" json:"name"`
	Description   string          `gorm:"type:text"               json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL      string          `gorm:"size:512"                json:"imageUrl"`
	StockQuantity int             `gorm:"not null;default:0"      json:"stockQuantity"`
	CategoryID    uint            `gorm:"not null;index"          json:"categoryId"`
	Category      Category        `gorm:"foreignKey:CategoryID"   json:"-"`
}
