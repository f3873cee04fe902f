package broadcast

import (
	"sync"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

// Hub fans events out to in-process subscribers (websocket clients, the RabbitMQ relay).
// It shares no lock with storage, so a stalled subscriber can never stall a write.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
	buffer int
	closed bool
	logger logger.Logger
}

type subscription struct {
	id     uint64
	events chan domain.Event
}

func (s *subscription) ID() uint64                  { return s.id }
func (s *subscription) Events() <-chan domain.Event { return s.events }

func NewHub(buffer int, logger logger.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[uint64]*subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Publish delivers event to every current subscriber without blocking.
// A subscriber whose queue is full is evicted; it must reconnect and reload state.
func (h *Hub) Publish(event domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for id, sub := range h.subs {
		select {
		case sub.events <- event:
		default:
			delete(h.subs, id)
			close(sub.events)
			h.logger.Error("subscriber_evicted", "Subscriber queue full, dropping connection", "", map[string]interface{}{
				"subscriber_id": id,
				"event_type":    event.Type,
				"order_id":      event.OrderID,
			}, errSlowSubscriber)
		}
	}
}

func (h *Hub) Subscribe() interfaces.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &subscription{
		id:     h.nextID,
		events: make(chan domain.Event, h.buffer),
	}
	if h.closed {
		close(sub.events)
		return sub
	}
	h.subs[sub.id] = sub

	h.logger.Debug("subscriber_connected", "Subscriber connected", "", map[string]interface{}{
		"subscriber_id": sub.id,
		"subscribers":   len(h.subs),
	})
	return sub
}

// Unsubscribe removes sub and closes its channel. Unknown or already evicted subscriptions are ignored.
func (h *Hub) Unsubscribe(sub interfaces.Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.subs[sub.ID()]
	if !ok {
		return
	}
	delete(h.subs, s.id)
	close(s.events)

	h.logger.Debug("subscriber_disconnected", "Subscriber disconnected", "", map[string]interface{}{
		"subscriber_id": s.id,
		"subscribers":   len(h.subs),
	})
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber; later publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.events)
	}
}
