package rabbitmq

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// fakeConnection hands out fakeChannels and records everything published through them.
type fakeConnection struct {
	mu         sync.Mutex
	published  []amqp.Publishing
	exchanges  map[string]bool
	bindings   []string
	channels   int
	channelErr error

	deliveries chan amqp.Delivery
	closeCh    chan *amqp.Error
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{
		exchanges:  make(map[string]bool),
		deliveries: make(chan amqp.Delivery, 16),
		closeCh:    make(chan *amqp.Error, 1),
	}
}

func (c *fakeConnection) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channelErr != nil {
		return nil, c.channelErr
	}
	c.channels++
	return &fakeChannel{conn: c}, nil
}

func (c *fakeConnection) Close() error { return nil }

func (c *fakeConnection) Published() []amqp.Publishing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]amqp.Publishing(nil), c.published...)
}

func (c *fakeConnection) Channels() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels
}

type fakeChannel struct {
	conn *fakeConnection
}

func (ch *fakeChannel) DeclareFanout(exchange string) error {
	ch.conn.mu.Lock()
	defer ch.conn.mu.Unlock()
	ch.conn.exchanges[exchange] = true
	return nil
}

func (ch *fakeChannel) Publish(ctx context.Context, exchange string, msg amqp.Publishing) error {
	ch.conn.mu.Lock()
	defer ch.conn.mu.Unlock()
	if !ch.conn.exchanges[exchange] {
		return errors.New("exchange not declared: " + exchange)
	}
	ch.conn.published = append(ch.conn.published, msg)
	return nil
}

func (ch *fakeChannel) SubscribeFanout(exchange string) (<-chan amqp.Delivery, error) {
	ch.conn.mu.Lock()
	defer ch.conn.mu.Unlock()
	if !ch.conn.exchanges[exchange] {
		return nil, errors.New("exchange not declared: " + exchange)
	}
	ch.conn.bindings = append(ch.conn.bindings, exchange)
	return ch.conn.deliveries, nil
}

func (ch *fakeChannel) NotifyClose() <-chan *amqp.Error { return ch.conn.closeCh }
func (ch *fakeChannel) Close() error                    { return nil }
