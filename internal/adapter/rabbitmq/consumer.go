package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

type consumer struct {
	conn       Connection
	exchange   string
	logger     logger.Logger
	retryDelay time.Duration
}

func NewConsumer(conn Connection, exchange string, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{
		conn:       conn,
		exchange:   exchange,
		logger:     logger,
		retryDelay: 5 * time.Second,
	}
}

// ConsumeEvents reads the order event fanout until ctx is cancelled,
// re-declaring its queue after every disconnect.
func (c *consumer) ConsumeEvents(ctx context.Context, handler interfaces.EventHandler) error {
	for {
		err := c.consumeEventsWithReconnect(ctx, handler)

		// Если контекст отменен или соединение закрыто намеренно - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", fmt.Sprintf("Events consumer disconnected, reconnecting in %s", c.retryDelay), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
			// Продолжаем попытки переподключения
		}
	}
}

func (c *consumer) consumeEventsWithReconnect(ctx context.Context, handler interfaces.EventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Отслеживаем закрытие канала
	closeChan := ch.NotifyClose()

	if err := ch.DeclareFanout(c.exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	msgs, err := ch.SubscribeFanout(c.exchange)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// Ошибки обработки уведомлений не останавливают чтение
			if err := handler(ctx, msg.Body); err != nil {
				c.logger.Debug("event_handler_failed", "Skipping undecodable event", "", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
