package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EventsHandler streams order events to staff clients over a websocket.
// A client that was evicted for falling behind gets a close frame and is
// expected to reconnect and reload GET /api/orders.
type EventsHandler struct {
	broadcaster interfaces.EventBroadcaster
	upgrader    websocket.Upgrader
	logger      logger.Logger
}

func NewEventsHandler(broadcaster interfaces.EventBroadcaster, logger logger.Logger) *EventsHandler {
	return &EventsHandler{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// staff screens are served from any origin, same as the REST API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	requestID := logger.RequestID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Debug("ws_upgrade_failed", "Websocket upgrade failed", requestID, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer conn.Close()

	sub := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(sub)

	h.logger.Info("client_connected", "Staff client connected", requestID, map[string]interface{}{
		"subscriber_id": sub.ID(),
		"remote_addr":   r.RemoteAddr,
	})

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resync required"))
				h.logger.Info("client_dropped", "Subscription closed by hub", requestID, map[string]interface{}{
					"subscriber_id": sub.ID(),
				})
				return
			}
			if err := conn.WriteJSON(interfaces.NewEventMessage(event)); err != nil {
				h.logger.Debug("ws_write_failed", "Failed to write event", requestID, map[string]interface{}{
					"subscriber_id": sub.ID(),
					"error":         err.Error(),
				})
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			h.logger.Info("client_disconnected", "Staff client disconnected", requestID, map[string]interface{}{
				"subscriber_id": sub.ID(),
			})
			return
		}
	}
}

// readLoop drains control frames so pongs and close frames are processed.
// Clients never send data on this channel.
func (h *EventsHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
