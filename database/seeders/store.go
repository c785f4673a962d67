package seeders

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/config"
	"github.com/storelane/storelane/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("catalog", SeedCatalog)
}

// SeedAdmin creates the initial administrator account. Credentials come from
// ADMIN_EMAIL / ADMIN_PASSWORD so the default never ships to production.
func SeedAdmin(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@storelane.local")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Create(&models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}

// SeedCatalog inserts a small demo catalogue. Idempotent: it bails out when
// any category already exists.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := map[string][]models.Product{
		"Electronics": {
			{Name: "Wireless Headphones", Description: "Over-ear, 30h battery", Price: decimal.NewFromFloat(89.99), StockQuantity: 40},
			{Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: decimal.NewFromFloat(119.00), StockQuantity: 25},
		},
		"Books": {
			{Name: "The Pragmatic Programmer", Description: "20th anniversary edition", Price: decimal.NewFromFloat(39.95), StockQuantity: 60},
		},
		"Clothing": {
			{Name: "Hooded Sweatshirt", Description: "Heavyweight cotton, unisex", Price: decimal.NewFromFloat(49.50), StockQuantity: 80},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for name, products := range categories {
			category := models.Category{Name: name}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			for i := range products {
				products[i].CategoryID = category.ID
			}
			if len(products) > 0 {
				if err := tx.Create(&products).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
