package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

type catalogRepository struct {
	db DB
}

func NewCatalogRepository(db DB) interfaces.CatalogStore {
	return &catalogRepository{db: db}
}

const selectProductColumns = `
	SELECT p.id, p.name, p.price, COALESCE(p.category_id, 0), COALESCE(c.name, ''),
	       COALESCE(p.image_url, ''), p.options, p.is_available
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

func (r *catalogRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, selectProductColumns+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("product", id)
	}
	if err != nil {
		return nil, domain.NewPersistenceError("query product", err)
	}
	return product, nil
}

func (r *catalogRepository) GetTable(ctx context.Context, id int64) (*domain.Table, error) {
	table := domain.Table{ID: id}
	err := r.db.QueryRow(ctx, `SELECT name FROM tables WHERE id = $1`, id).Scan(&table.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("table", id)
	}
	if err != nil {
		return nil, domain.NewPersistenceError("query table", err)
	}
	return &table, nil
}

func (r *catalogRepository) ListAvailableProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, selectProductColumns+` WHERE p.is_available = TRUE ORDER BY p.id`)
	if err != nil {
		return nil, domain.NewPersistenceError("query menu", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.NewPersistenceError("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError("iterate products", err)
	}
	return products, nil
}

func scanProduct(row Row) (*domain.Product, error) {
	var (
		p    domain.Product
		opts []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.Category, &p.ImageURL, &opts, &p.IsAvailable); err != nil {
		return nil, err
	}
	p.Options = domain.OptionSchema{}
	if len(opts) > 0 {
		if err := json.Unmarshal(opts, &p.Options); err != nil {
			return nil, err
		}
		if p.Options == nil {
			p.Options = domain.OptionSchema{}
		}
	}
	return &p, nil
}
