package services

// EventOrderPlaced is fired after a checkout commits. Listeners receive an
// OrderPlaced payload.
const EventOrderPlaced = "order.placed"

// OrderPlaced is the payload for EventOrderPlaced.
type OrderPlaced struct {
	UserID uint
	Order  OrderView
}
