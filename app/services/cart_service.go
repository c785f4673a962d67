package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/pkg/errs"
)

// CartService owns the per-user cart lines. Every mutating operation runs in
// a single transaction and returns the refreshed cart view.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the caller's cart lines plus the derived totals. Pure read.
func (s *CartService) GetCart(userID uint) (CartView, error) {
	return s.cartView(s.db, userID)
}

// AddToCart puts quantity of a product into the caller's cart. If a line for
// the product already exists its quantity is incremented, never duplicated.
// The stock check is against current catalogue stock; quantities already
// sitting in carts are not reserved — checkout is the sole point of truth
// for stock commitment.
func (s *CartService) AddToCart(userID, productID uint, quantity int) (CartView, error) {
	if quantity < 1 {
		return CartView{}, fmt.Errorf("%w: quantity must be at least 1", errs.ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.First(&product, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", errs.ErrNotFound, productID)
		}
		if err != nil {
			return err
		}

		if product.StockQuantity < quantity {
			return fmt.Errorf("%w: product %q", errs.ErrInsufficientStock, product.Name)
		}

		var line models.CartItem
		err = tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
			return tx.Create(&line).Error
		case err != nil:
			return err
		default:
			line.Quantity += quantity
			return tx.Save(&line).Error
		}
	})
	if err != nil {
		return CartView{}, err
	}
	return s.cartView(s.db, userID)
}

// UpdateItem overwrites a line's quantity. A quantity of zero or less deletes
// the line. The existence check runs before the ownership check so a missing
// line is NotFound, not Forbidden.
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (CartView, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		line, err := s.ownedLine(tx, userID, itemID)
		if err != nil {
			return err
		}

		if quantity <= 0 {
			return tx.Delete(&line).Error
		}

		var product models.Product
		if err := tx.First(&product, line.ProductID).Error; err != nil {
			return err
		}
		if product.StockQuantity < quantity {
			return fmt.Errorf("%w: product %q", errs.ErrInsufficientStock, product.Name)
		}

		line.Quantity = quantity
		return tx.Save(&line).Error
	})
	if err != nil {
		return CartView{}, err
	}
	return s.cartView(s.db, userID)
}

// RemoveItem deletes one line from the caller's cart.
func (s *CartService) RemoveItem(userID, itemID uint) (CartView, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		line, err := s.ownedLine(tx, userID, itemID)
		if err != nil {
			return err
		}
		return tx.Delete(&line).Error
	})
	if err != nil {
		return CartView{}, err
	}
	return s.cartView(s.db, userID)
}

// Clear deletes every line owned by the user. Clearing an empty cart
// succeeds silently.
func (s *CartService) Clear(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// ownedLine loads a cart line and enforces ownership, in that order.
func (s *CartService) ownedLine(tx *gorm.DB, userID, itemID uint) (models.CartItem, error) {
	var line models.CartItem
	err := tx.First(&line, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return line, fmt.Errorf("%w: cart item %d", errs.ErrNotFound, itemID)
	}
	if err != nil {
		return line, err
	}
	if line.UserID != userID {
		return line, fmt.Errorf("%w: cart item %d", errs.ErrForbidden, itemID)
	}
	return line, nil
}

// cartView builds the CartView from the current rows. Totals are derived
// with fixed-point arithmetic; TotalItems counts distinct lines.
func (s *CartService) cartView(tx *gorm.DB, userID uint) (CartView, error) {
	var lines []models.CartItem
	err := tx.Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return CartView{}, err
	}

	view := CartView{
		Items:      make([]CartItemView, 0, len(lines)),
		TotalPrice: decimal.Zero,
	}
	for _, line := range lines {
		sub := subtotal(line.Product.Price, line.Quantity)
		view.Items = append(view.Items, CartItemView{
			ID:              line.ID,
			ProductID:       line.ProductID,
			ProductName:     line.Product.Name,
			ProductImageURL: line.Product.ImageURL,
			ProductPrice:    line.Product.Price,
			Quantity:        line.Quantity,
			Subtotal:        sub,
		})
		view.TotalPrice = view.TotalPrice.Add(sub)
	}
	view.TotalItems = len(view.Items)
	return view, nil
}
