package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/qr-order/internal/domain"
)

// EventPublisher fans an event out to connected staff clients.
// Publish never blocks on a subscriber and never fails.
type EventPublisher interface {
	Publish(event domain.Event)
}

type Subscription interface {
	ID() uint64
	// Events is closed when the subscription is removed or evicted.
	Events() <-chan domain.Event
}

type EventBroadcaster interface {
	EventPublisher
	Subscribe() Subscription
	Unsubscribe(sub Subscription)
}

// Wire messages shared by the websocket stream and the RabbitMQ relay
type EventMessage struct {
	Type      domain.EventType `json:"type"`
	Data      any              `json:"data"`
	EmittedAt time.Time        `json:"emitted_at"`
}

type OrderPayload struct {
	ID          int64              `json:"id"`
	TableID     int64              `json:"table_id"`
	TableName   string             `json:"table_name"`
	Status      domain.Status      `json:"status"`
	TotalAmount int64              `json:"total_amount"`
	Note        *string            `json:"note"`
	CreatedAt   time.Time          `json:"created_at"`
	Items       []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	Name    string                 `json:"name"`
	Qty     int                    `json:"qty"`
	Options domain.SelectedOptions `json:"options"`
}

type StatusPayload struct {
	OrderID int64         `json:"order_id"`
	Status  domain.Status `json:"status"`
}

func NewOrderPayload(order *domain.Order) OrderPayload {
	items := make([]OrderItemPayload, len(order.Items))
	for i, item := range order.Items {
		opts := item.SelectedOptions
		if opts == nil {
			opts = domain.SelectedOptions{}
		}
		items[i] = OrderItemPayload{Name: item.Name, Qty: item.Quantity, Options: opts}
	}
	return OrderPayload{
		ID:          order.ID,
		TableID:     order.TableID,
		TableName:   order.TableName,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Note:        order.Note,
		CreatedAt:   order.CreatedAt,
		Items:       items,
	}
}

func NewEventMessage(event domain.Event) EventMessage {
	msg := EventMessage{Type: event.Type, EmittedAt: event.EmittedAt}
	if event.Type == domain.EventOrderCreated && event.Order != nil {
		msg.Data = NewOrderPayload(event.Order)
	} else {
		msg.Data = StatusPayload{OrderID: event.OrderID, Status: event.Status}
	}
	return msg
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type MessagePublisher interface {
	PublishEvent(ctx context.Context, msg EventMessage) error
}

type MessageConsumer interface {
	ConsumeEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(ctx context.Context, body []byte) error
