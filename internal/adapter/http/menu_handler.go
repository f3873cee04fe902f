package http

import (
	"net/http"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

type MenuHandler struct {
	service interfaces.MenuService
	logger  logger.Logger
}

func NewMenuHandler(service interfaces.MenuService, logger logger.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

type ProductResponse struct {
	ID       int64               `json:"id"`
	Name     string              `json:"name"`
	Price    int64               `json:"price"`
	Category string              `json:"category"`
	ImageURL string              `json:"image_url"`
	Options  domain.OptionSchema `json:"options"`
}

func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListMenu(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		opts := p.Options
		if opts == nil {
			opts = domain.OptionSchema{}
		}
		resp[i] = ProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			ImageURL: p.ImageURL,
			Options:  opts,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
