package domain

import "time"

type EventType string

const (
	EventOrderCreated       EventType = "new_order"
	EventOrderStatusChanged EventType = "order_update"
)

// Event is a notification fanned out to staff clients after a committed write.
// Order is set for EventOrderCreated; OrderID and Status are always set.
type Event struct {
	Type      EventType
	Order     *Order
	OrderID   int64
	Status    Status
	EmittedAt time.Time
}

func NewOrderCreatedEvent(order *Order, at time.Time) Event {
	return Event{
		Type:      EventOrderCreated,
		Order:     order.Clone(),
		OrderID:   order.ID,
		Status:    order.Status,
		EmittedAt: at,
	}
}

func NewOrderStatusChangedEvent(orderID int64, status Status, at time.Time) Event {
	return Event{
		Type:      EventOrderStatusChanged,
		OrderID:   orderID,
		Status:    status,
		EmittedAt: at,
	}
}
