package rabbitmq

import (
	"context"
	"time"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

// EventRelay forwards every locally published order event to RabbitMQ.
// It is an ordinary hub subscriber: if the broker stalls long enough for the
// relay to be evicted, the events in between are lost and it subscribes again.
type EventRelay struct {
	broadcaster interfaces.EventBroadcaster
	publisher   interfaces.MessagePublisher
	logger      logger.Logger

	publishTimeout time.Duration
	retryDelay     time.Duration
}

func NewEventRelay(broadcaster interfaces.EventBroadcaster, publisher interfaces.MessagePublisher, logger logger.Logger) *EventRelay {
	return &EventRelay{
		broadcaster:    broadcaster,
		publisher:      publisher,
		logger:         logger,
		publishTimeout: 5 * time.Second,
		retryDelay:     time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (r *EventRelay) Run(ctx context.Context) error {
	for {
		r.forward(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryDelay):
			r.logger.Info("relay_resubscribe", "Relay subscription was closed, subscribing again", "", nil)
		}
	}
}

func (r *EventRelay) forward(ctx context.Context) {
	sub := r.broadcaster.Subscribe()
	defer r.broadcaster.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}

			pubCtx, cancel := context.WithTimeout(ctx, r.publishTimeout)
			err := r.publisher.PublishEvent(pubCtx, interfaces.NewEventMessage(event))
			cancel()
			if err != nil {
				r.logger.Error("relay_publish_failed", "Failed to relay order event", "", map[string]interface{}{
					"event_type": event.Type,
					"order_id":   event.OrderID,
				}, err)
				continue
			}
			r.logger.Debug("event_relayed", "Order event relayed", "", map[string]interface{}{
				"event_type": event.Type,
				"order_id":   event.OrderID,
			})
		}
	}
}
