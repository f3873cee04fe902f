package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/qr-order/internal/config"
)

// Connection is a broker session that redials when the server drops it.
type Connection interface {
	Channel() (Channel, error)
	Close() error
}

// Channel exposes the fanout operations the event relay and subscriber need.
type Channel interface {
	DeclareFanout(exchange string) error
	Publish(ctx context.Context, exchange string, msg amqp.Publishing) error
	// SubscribeFanout binds a server-named exclusive queue to exchange and
	// starts an auto-ack consumer on it. The queue goes away with the channel.
	SubscribeFanout(exchange string) (<-chan amqp.Delivery, error)
	NotifyClose() <-chan *amqp.Error
	Close() error
}

type amqpConnection struct {
	url    string
	mu     sync.Mutex
	conn   *amqp.Connection
	closed bool
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	c := &amqpConnection{url: cfg.URL()}
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.conn = conn
	return c, nil
}

// Channel opens a channel, redialing first if the broker dropped the connection.
func (c *amqpConnection) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("connection is closed")
	}
	if c.conn.IsClosed() {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			return nil, fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
		}
		c.conn = conn
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &amqpChannel{ch: ch}, nil
}

func (c *amqpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (a *amqpChannel) DeclareFanout(exchange string) error {
	return a.ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil)
}

func (a *amqpChannel) Publish(ctx context.Context, exchange string, msg amqp.Publishing) error {
	return a.ch.PublishWithContext(ctx, exchange, "", false, false, msg)
}

func (a *amqpChannel) SubscribeFanout(exchange string) (<-chan amqp.Delivery, error) {
	q, err := a.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := a.ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}
	msgs, err := a.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return msgs, nil
}

func (a *amqpChannel) NotifyClose() <-chan *amqp.Error {
	return a.ch.NotifyClose(make(chan *amqp.Error, 1))
}

func (a *amqpChannel) Close() error {
	return a.ch.Close()
}
