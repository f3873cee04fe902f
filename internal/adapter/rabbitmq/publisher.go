package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

type publisher struct {
	conn     Connection
	exchange string
}

// NewPublisher publishes order events to a fanout exchange so every POS
// instance and notification subscriber gets its own copy.
func NewPublisher(conn Connection, exchange string) interfaces.MessagePublisher {
	return &publisher{conn: conn, exchange: exchange}
}

func (p *publisher) PublishEvent(ctx context.Context, msg interfaces.EventMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.DeclareFanout(p.exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(ctx, p.exchange, amqp.Publishing{
		ContentType: "application/json",
		Type:        string(msg.Type),
		Timestamp:   msg.EmittedAt,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
