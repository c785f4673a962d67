package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/pkg/errs"
	"github.com/storelane/storelane/pkg/metrics"
)

// OrderService converts carts into immutable order snapshots and exposes the
// admin status transition. Checkout is the one multi-row transactional
// algorithm in the system.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// UserOrders returns the caller's orders, newest first.
func (s *OrderService) UserOrders(userID uint) ([]OrderView, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.orderView(s.db, order)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// OrderByID resolves one order for its owner. Existence is checked before
// ownership so a missing order is NotFound, not Forbidden.
func (s *OrderService) OrderByID(userID, orderID uint) (OrderView, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
	}
	if err != nil {
		return OrderView{}, err
	}
	if order.UserID != userID {
		return OrderView{}, fmt.Errorf("%w: order %d", errs.ErrForbidden, orderID)
	}
	return s.orderView(s.db, order)
}

// Checkout turns the caller's cart into a PENDING order.
//
// The whole operation is one transaction: read lines, lock and decrement each
// product's stock, snapshot unit prices into order items, persist the order,
// clear the cart. A failure on any line rolls everything back — no partial
// decrement, no partial order, no partial cart clearing. Product rows are
// locked FOR UPDATE so concurrent checkouts cannot both pass the stock check
// and overdraw the same product.
func (s *OrderService) Checkout(userID uint, shippingAddress, paymentMethod string) (OrderView, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	paymentMethod = strings.TrimSpace(paymentMethod)
	if shippingAddress == "" {
		return OrderView{}, fmt.Errorf("%w: shipping address is required", errs.ErrValidation)
	}
	if paymentMethod == "" {
		return OrderView{}, fmt.Errorf("%w: payment method is required", errs.ErrValidation)
	}

	var view OrderView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return errs.ErrEmptyCart
		}

		order := models.Order{
			Reference:       newOrderReference(),
			UserID:          userID,
			OrderDate:       time.Now(),
			Status:          models.OrderStatusPending,
			ShippingAddress: shippingAddress,
			PaymentMethod:   paymentMethod,
			TotalAmount:     decimal.Zero,
		}

		itemViews := make([]OrderItemView, 0, len(lines))
		for _, line := range lines {
			var product models.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", errs.ErrNotFound, line.ProductID)
			}
			if err != nil {
				return err
			}

			if product.StockQuantity < line.Quantity {
				return fmt.Errorf("%w: product %q", errs.ErrInsufficientStock, product.Name)
			}

			product.StockQuantity -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			sub := subtotal(product.Price, line.Quantity)
			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price, // snapshot: immune to later price edits
			})
			itemViews = append(itemViews, OrderItemView{
				ProductID:       product.ID,
				ProductName:     product.Name,
				ProductImageURL: product.ImageURL,
				Quantity:        line.Quantity,
				Price:           product.Price,
				Subtotal:        sub,
			})
			order.TotalAmount = order.TotalAmount.Add(sub)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Cart is cleared only after the order and every decrement succeeded.
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		for i := range itemViews {
			itemViews[i].ID = order.Items[i].ID
		}
		view = OrderView{
			ID:              order.ID,
			Reference:       order.Reference,
			OrderDate:       order.OrderDate,
			Status:          order.Status,
			ShippingAddress: order.ShippingAddress,
			PaymentMethod:   order.PaymentMethod,
			TotalAmount:     order.TotalAmount,
			Items:           itemViews,
		}
		return nil
	})
	if err != nil {
		metrics.CheckoutFailures.WithLabelValues(errs.Kind(err)).Inc()
		return OrderView{}, err
	}

	metrics.OrdersPlaced.Inc()
	amount, _ := view.TotalAmount.Float64()
	metrics.OrderValue.Observe(amount)
	for _, item := range view.Items {
		metrics.StockSold.WithLabelValues(item.ProductName).Add(float64(item.Quantity))
	}
	return view, nil
}

// UpdateStatus overwrites an order's status. Authorisation is enforced at the
// route boundary (admin-only), not here.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) (OrderView, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
	}
	if err != nil {
		return OrderView{}, err
	}

	order.Status = status
	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return OrderView{}, err
	}
	return s.orderView(s.db, order)
}

// orderView assembles the response shape for an already-loaded order,
// resolving current product names for display. Prices always come from the
// order items, never from the live product rows.
func (s *OrderService) orderView(tx *gorm.DB, order models.Order) (OrderView, error) {
	ids := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}

	products := map[uint]models.Product{}
	if len(ids) > 0 {
		var rows []models.Product
		if err := tx.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return OrderView{}, err
		}
		for _, p := range rows {
			products[p.ID] = p
		}
	}

	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		p := products[item.ProductID]
		items = append(items, OrderItemView{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     p.Name,
			ProductImageURL: p.ImageURL,
			Quantity:        item.Quantity,
			Price:           item.Price,
			Subtotal:        subtotal(item.Price, item.Quantity),
		})
	}

	return OrderView{
		ID:              order.ID,
		Reference:       order.Reference,
		OrderDate:       order.OrderDate,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount,
		Items:           items,
	}, nil
}

// newOrderReference produces a timestamped unique order number.
func newOrderReference() string {
	return time.Now().UTC().Format("20060102150405") + "-" + uuid.NewString()
}
