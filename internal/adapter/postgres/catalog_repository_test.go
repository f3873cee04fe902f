package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/qr-order/internal/domain"
)

func TestCatalogRepository(t *testing.T) {
	repo := NewCatalogRepository(newFakeDB())
	ctx := context.Background()

	p, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Trà Sữa Trân Châu", p.Name)
	assert.Equal(t, int64(45000), p.Price)
	assert.Equal(t, domain.OptionSchema{"Size": {"M", "L"}}, p.Options)

	hidden, err := repo.GetProduct(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.OptionSchema{}, hidden.Options)

	_, err = repo.GetProduct(ctx, 500)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	table, err := repo.GetTable(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bàn 2", table.Name)

	_, err = repo.GetTable(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	menu, err := repo.ListAvailableProducts(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, int64(1), menu[0].ID)
	assert.Equal(t, int64(3), menu[1].ID)
}
