package domain

type OrderEventType string

const (
	EventCreated OrderEventType = "CREATED"
	EventUpdated OrderEventType = "UPDATED"
)

// OrderEvent is never persisted; it lives for one publish cycle.
type OrderEvent struct {
	OrderID      int64          `json:"orderId"`
	RestaurantID int64          `json:"restaurantId"`
	Status       OrderStatus    `json:"status"`
	Type         OrderEventType `json:"type"`
}

func NewOrderEvent(o Order, t OrderEventType) OrderEvent {
	return OrderEvent{
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		Status:       o.Status,
		Type:         t,
	}
}
