package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

// Service composes storage and broadcast. Every mutating call persists first
// and publishes only after the repository reports a committed write.
type Service struct {
	repo      interfaces.OrderRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewService(repo interfaces.OrderRepository, publisher interfaces.EventPublisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) PlaceOrder(ctx context.Context, cmd interfaces.PlaceOrderCommand) (*domain.Order, error) {
	// 1. Command -> domain, with input validation before any storage call
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			SelectedOptions: domain.SelectedOptions(item.Options),
		}
	}

	order, err := domain.NewOrder(cmd.TableID, items, cmd.TotalAmount, cmd.Note)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", logger.RequestID(ctx), nil, err)
		return nil, err
	}

	// 2. Atomic write of the order and its items
	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", logger.RequestID(ctx), map[string]interface{}{
			"table_id": cmd.TableID,
			"items":    len(cmd.Items),
		}, err)
		return nil, err
	}
	s.logger.Debug("order_created", fmt.Sprintf("Order %d created", created.ID), logger.RequestID(ctx), map[string]interface{}{
		"order_id":     created.ID,
		"table":        created.TableName,
		"total_amount": created.TotalAmount,
	})

	// 3. Notify staff only once the write is committed
	s.publisher.Publish(domain.NewOrderCreatedEvent(created, s.now()))

	return created, nil
}

func (s *Service) ChangeStatus(ctx context.Context, orderID int64, requested string) (*interfaces.StatusChangeResult, error) {
	status, err := domain.ParseStatus(requested)
	if err == nil {
		err = domain.ValidateTransition(status)
	}
	if err != nil {
		s.logger.Error("invalid_status", "Rejected status change", logger.RequestID(ctx), map[string]interface{}{
			"order_id": orderID,
			"status":   requested,
		}, err)
		return nil, err
	}
	if orderID <= 0 {
		return nil, domain.NewValidationError("order_id", "order id must be positive")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			s.logger.Debug("order_not_found", fmt.Sprintf("Order %d not found", orderID), logger.RequestID(ctx), nil)
		} else {
			s.logger.Error("db_update_failed", "Failed to update order status", logger.RequestID(ctx), map[string]interface{}{
				"order_id": orderID,
			}, err)
		}
		return nil, err
	}

	s.publisher.Publish(domain.NewOrderStatusChangedEvent(orderID, status, s.now()))
	s.logger.Debug("order_status_changed", fmt.Sprintf("Order %d is now %s", orderID, status), logger.RequestID(ctx), map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	return &interfaces.StatusChangeResult{OrderID: orderID, Status: status}, nil
}

func (s *Service) ListActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.ListActiveOrders(ctx)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list active orders", logger.RequestID(ctx), nil, err)
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}
