package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

const maxBodyBytes = 1 << 20

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type PlaceOrderRequest struct {
	TableID     int64              `json:"table_id"`
	Items       []OrderItemRequest `json:"items"`
	TotalAmount int64              `json:"total_amount"`
	Note        *string            `json:"note"`
}

type OrderItemRequest struct {
	ProductID int64             `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Options   map[string]string `json:"options"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type ChangeStatusResponse struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

func (h *OrderHandler) ListActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListActiveOrders(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	resp := make([]interfaces.OrderPayload, len(orders))
	for i, o := range orders {
		resp[i] = interfaces.NewOrderPayload(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, interfaces.NewOrderPayload(order))
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Debug("request_rejected", "Invalid order body", logger.RequestID(r.Context()), map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	cmd := interfaces.PlaceOrderCommand{
		TableID:     req.TableID,
		Items:       make([]interfaces.PlaceOrderItemCommand, len(req.Items)),
		TotalAmount: req.TotalAmount,
		Note:        req.Note,
	}
	for i, item := range req.Items {
		cmd.Items[i] = interfaces.PlaceOrderItemCommand{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Options:   item.Options,
		}
	}

	order, err := h.service.PlaceOrder(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, interfaces.NewOrderPayload(order))
}

func (h *OrderHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	result, err := h.service.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ChangeStatusResponse{
		OrderID: result.OrderID,
		Status:  string(result.Status),
	})
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "id", Message: fmt.Sprintf("invalid order id %q", raw)},
		})
		return 0, false
	}
	return id, true
}
