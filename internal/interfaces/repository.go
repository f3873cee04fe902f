package interfaces

import (
	"context"

	"github.com/YelzhanWeb/qr-order/internal/domain"
)

// OrderRepository is durable storage for orders and their items.
// It performs no transition checks and sends no notifications.
type OrderRepository interface {
	// CreateOrder writes the order row and every item row atomically.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListActiveOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	// UpdateStatus returns *domain.NotFoundError when the order does not exist.
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
}

// CatalogStore is read-only access to tables and products
type CatalogStore interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetTable(ctx context.Context, id int64) (*domain.Table, error)
	ListAvailableProducts(ctx context.Context) ([]*domain.Product, error)
}
