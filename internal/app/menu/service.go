package menu

import (
	"context"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

type Service struct {
	catalog interfaces.CatalogStore
	logger  logger.Logger
}

func NewService(catalog interfaces.CatalogStore, logger logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

// ListMenu returns the products customers can currently order.
func (s *Service) ListMenu(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.catalog.ListAvailableProducts(ctx)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to load menu", logger.RequestID(ctx), nil, err)
		return nil, err
	}

	s.logger.Debug("menu_loaded", "Menu loaded", logger.RequestID(ctx), map[string]interface{}{
		"products": len(products),
	})
	return products, nil
}
