package http

import (
	"context"
	"net/http"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
)

// HealthCheck reports whether a backing dependency is reachable
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Orders    *OrderHandler
	Menu      *MenuHandler
	Events    *EventsHandler
	Health    HealthCheck
	StaticDir string
	Logger    logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/menu", cfg.Menu.ListMenu)
	mux.HandleFunc("GET /api/orders", cfg.Orders.ListActiveOrders)
	mux.HandleFunc("POST /api/orders", cfg.Orders.PlaceOrder)
	mux.HandleFunc("GET /api/orders/{id}", cfg.Orders.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", cfg.Orders.ChangeStatus)
	mux.HandleFunc("GET /ws", cfg.Events.Stream)
	mux.HandleFunc("GET /healthz", healthHandler(cfg.Health, cfg.Logger))

	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	// Apply middleware, outermost last
	var handler http.Handler = mux
	handler = CORSMiddleware()(handler)
	handler = LoggingMiddleware(cfg.Logger)(handler)
	handler = RecoveryMiddleware(cfg.Logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}

func healthHandler(check HealthCheck, lgr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				lgr.Error("health_check_failed", "Dependency unavailable", logger.RequestID(r.Context()), nil, err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
