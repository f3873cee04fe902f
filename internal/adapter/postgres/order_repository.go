package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// querier is satisfied by both DB and Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

const selectOrderColumns = `
	SELECT o.id, o.table_id, t.name, o.status, o.total_amount, o.note, o.created_at
	FROM orders o
	JOIN tables t ON t.id = o.table_id
`

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	created := order.Clone()
	created.Status = domain.StatusNew

	// Preconditions are checked inside the transaction, before the first write
	err = tx.QueryRow(ctx, `SELECT name FROM tables WHERE id = $1`, created.TableID).Scan(&created.TableName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.ValidationError{
			Field:   "table_id",
			Message: "unknown table",
			Err:     domain.NewNotFoundError("table", created.TableID),
		}
	}
	if err != nil {
		return nil, domain.NewPersistenceError("lookup table", err)
	}

	names := make(map[int64]string, len(created.Items))
	for i, item := range created.Items {
		if name, ok := names[item.ProductID]; ok {
			created.Items[i].Name = name
			continue
		}
		var name string
		err := tx.QueryRow(ctx, `SELECT name FROM products WHERE id = $1`, item.ProductID).Scan(&name)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.ValidationError{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: "unknown product",
				Err:     domain.NewNotFoundError("product", item.ProductID),
			}
		}
		if err != nil {
			return nil, domain.NewPersistenceError("lookup product", err)
		}
		names[item.ProductID] = name
		created.Items[i].Name = name
	}

	// Insert order
	query := `
		INSERT INTO orders (table_id, status, total_amount, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		created.TableID, string(created.Status), created.TotalAmount, created.Note,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, domain.NewPersistenceError("insert order", err)
	}

	// Insert order items
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, selected_options)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range created.Items {
		item := &created.Items[i]
		opts, err := json.Marshal(item.SelectedOptions)
		if err != nil {
			return nil, domain.NewPersistenceError("encode selected options", err)
		}
		err = tx.QueryRow(ctx, itemQuery, created.ID, item.ProductID, item.Quantity, opts).Scan(&item.ID)
		if err != nil {
			return nil, domain.NewPersistenceError("insert order item", err)
		}
		item.OrderID = created.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewPersistenceError("commit order", err)
	}
	return created, nil
}

func (r *orderRepository) ListActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	active := domain.ActiveStatuses()
	statuses := make([]string, len(active))
	for i, s := range active {
		statuses[i] = string(s)
	}

	query := selectOrderColumns + `
		WHERE o.status = ANY($1)
		ORDER BY o.created_at ASC, o.id ASC
	`
	rows, err := r.db.Query(ctx, query, statuses)
	if err != nil {
		return nil, domain.NewPersistenceError("query active orders", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, domain.NewPersistenceError("scan order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("iterate orders", err)
	}
	rows.Close()

	if err := loadItems(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, selectOrderColumns+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("order", id)
	}
	if err != nil {
		return nil, domain.NewPersistenceError("query order", err)
	}

	if err := loadItems(ctx, r.db, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return domain.NewPersistenceError("update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("order", id)
	}
	return nil
}

func scanOrder(row Row) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	err := row.Scan(
		&order.ID, &order.TableID, &order.TableName, &status,
		&order.TotalAmount, &order.Note, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = domain.Status(status)
	order.Items = []domain.OrderItem{}
	return &order, nil
}

// loadItems attaches items to orders in one round trip, keeping insertion order.
func loadItems(ctx context.Context, q querier, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	query := `
		SELECT oi.id, oi.order_id, COALESCE(oi.product_id, 0), COALESCE(p.name, ''),
		       oi.quantity, oi.selected_options
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return domain.NewPersistenceError("query order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item domain.OrderItem
			opts []byte
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &opts); err != nil {
			return domain.NewPersistenceError("scan order item", err)
		}
		item.SelectedOptions = domain.SelectedOptions{}
		if len(opts) > 0 {
			if err := json.Unmarshal(opts, &item.SelectedOptions); err != nil {
				return domain.NewPersistenceError("decode selected options", err)
			}
			if item.SelectedOptions == nil {
				item.SelectedOptions = domain.SelectedOptions{}
			}
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.NewPersistenceError("iterate order items", err)
	}
	return nil
}
