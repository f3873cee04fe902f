package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

// NotificationHandler prints order events received from the fanout exchange.
type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return NewNotificationHandlerWithWriter(logger, os.Stdout)
}

func NewNotificationHandlerWithWriter(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

type eventEnvelope struct {
	Type domain.EventType `json:"type"`
	Data json.RawMessage  `json:"data"`
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg eventEnvelope
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	switch msg.Type {
	case domain.EventOrderCreated:
		var order interfaces.OrderPayload
		if err := json.Unmarshal(msg.Data, &order); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse new order", "", nil, err)
			return err
		}

		h.logger.Debug("notification_received", fmt.Sprintf("Received new order %d", order.ID), "", map[string]interface{}{
			"order_id": order.ID,
			"table":    order.TableName,
		})
		fmt.Fprintf(h.out, "New order #%d at %s: %d item(s), total %d\n",
			order.ID, order.TableName, len(order.Items), order.TotalAmount)
		for _, item := range order.Items {
			fmt.Fprintf(h.out, "  %d x %s %v\n", item.Qty, item.Name, map[string]string(item.Options))
		}

	case domain.EventOrderStatusChanged:
		var update interfaces.StatusPayload
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse status update", "", nil, err)
			return err
		}

		h.logger.Debug("notification_received", fmt.Sprintf("Received status update for order %d", update.OrderID), "", map[string]interface{}{
			"order_id":   update.OrderID,
			"new_status": update.Status,
		})
		fmt.Fprintf(h.out, "Order #%d is now '%s'\n", update.OrderID, update.Status)

	default:
		err := fmt.Errorf("unknown event type %q", msg.Type)
		h.logger.Error("message_parse_failed", "Unknown notification type", "", nil, err)
		return err
	}

	return nil
}
