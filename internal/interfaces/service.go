package interfaces

import (
	"context"

	"github.com/YelzhanWeb/qr-order/internal/domain"
)

// Команды для сервисов
type PlaceOrderCommand struct {
	TableID     int64
	Items       []PlaceOrderItemCommand
	TotalAmount int64
	Note        *string
}

type PlaceOrderItemCommand struct {
	ProductID int64
	Quantity  int
	Options   map[string]string
}

type StatusChangeResult struct {
	OrderID int64
	Status  domain.Status
}

// Интерфейсы Сервисов (Business Logic)
type OrderService interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
	ChangeStatus(ctx context.Context, orderID int64, status string) (*StatusChangeResult, error)
	ListActiveOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

type MenuService interface {
	ListMenu(ctx context.Context) ([]*domain.Product, error)
}
