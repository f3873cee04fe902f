package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

// orderRecord is the stored form of an order; item names are resolved on read
// so they follow the catalog the same way the SQL join does.
type orderRecord struct {
	order *domain.Order
}

// Store is an in-process OrderRepository and CatalogStore.
// Every write holds the lock for its whole duration, which makes CreateOrder atomic to readers.
type Store struct {
	mu         sync.RWMutex
	tables     map[int64]domain.Table
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	orders     []*orderRecord
	byID       map[int64]*orderRecord

	orderCounter int64
	itemCounter  int64
	now          func() time.Time
}

var (
	_ interfaces.OrderRepository = (*Store)(nil)
	_ interfaces.CatalogStore    = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		tables:     make(map[int64]domain.Table),
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		byID:       make(map[int64]*orderRecord),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) AddTable(t domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

func (s *Store) AddCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Options = p.Options.Clone()
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = c.Name
	}
	s.products[p.ID] = p
}

// RemoveProduct deletes a catalog entry. Existing order items keep their option snapshot.
func (s *Store) RemoveProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewPersistenceError("create order", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[order.TableID]
	if !ok {
		return nil, &domain.ValidationError{
			Field:   "table_id",
			Message: "unknown table",
			Err:     domain.NewNotFoundError("table", order.TableID),
		}
	}
	for i, item := range order.Items {
		if _, ok := s.products[item.ProductID]; !ok {
			return nil, &domain.ValidationError{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: "unknown product",
				Err:     domain.NewNotFoundError("product", item.ProductID),
			}
		}
	}

	stored := order.Clone()
	s.orderCounter++
	stored.ID = s.orderCounter
	stored.TableName = table.Name
	stored.Status = domain.StatusNew
	stored.CreatedAt = s.now()
	for i := range stored.Items {
		s.itemCounter++
		stored.Items[i].ID = s.itemCounter
		stored.Items[i].OrderID = stored.ID
	}

	rec := &orderRecord{order: stored}
	s.orders = append(s.orders, rec)
	s.byID[stored.ID] = rec

	return s.resolve(rec), nil
}

func (s *Store) ListActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0)
	for _, rec := range s.orders {
		if rec.order.Status.IsActive() {
			result = append(result, s.resolve(rec))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}
	return s.resolve(rec), nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError("update order status", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return domain.NewNotFoundError("order", id)
	}
	rec.order.Status = status
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.NewNotFoundError("product", id)
	}
	p.Options = p.Options.Clone()
	return &p, nil
}

func (s *Store) GetTable(ctx context.Context, id int64) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, domain.NewNotFoundError("table", id)
	}
	return &t, nil
}

func (s *Store) ListAvailableProducts(ctx context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.IsAvailable {
			continue
		}
		p.Options = p.Options.Clone()
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// resolve copies a stored order and fills item names from the current catalog.
// Caller must hold s.mu.
func (s *Store) resolve(rec *orderRecord) *domain.Order {
	out := rec.order.Clone()
	for i := range out.Items {
		if p, ok := s.products[out.Items[i].ProductID]; ok {
			out.Items[i].Name = p.Name
		} else {
			out.Items[i].Name = ""
		}
	}
	return out
}
