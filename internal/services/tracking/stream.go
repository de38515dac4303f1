package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/statussync"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

const (
	EventSnapshot      = "snapshot"
	EventStatusChanged = "status_changed"
)

// StreamEvent is one frame sent on an order stream.
type StreamEvent struct {
	Type      string             `json:"type"`
	OldStatus models.OrderStatus `json:"old_status,omitempty"`
	Order     *models.Order      `json:"order"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamOrder handles GET /orders/:id/stream. It sends the current order, then every
// status change, and closes the socket once the order is complete or cancelled.
func (h *Handler) StreamOrder(c *gin.Context) {
	requestID := web.GetRequestID(c)

	id, ok := h.orderID(c)
	if !ok {
		return
	}

	initial, err := h.service.FetchOrder(c.Request.Context(), id)
	if err != nil {
		web.WriteError(c, h.logger, "db_query_failed", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("ws_upgrade_failed", "Failed to upgrade connection", requestID, err, nil)
		return
	}
	defer conn.Close()

	h.service.metrics.StreamOpened()
	defer h.service.metrics.StreamClosed()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go readPump(conn, cancel)

	events := make(chan StreamEvent, 8)
	loop := h.service.NewLoop(func(ch statussync.Change) {
		select {
		case events <- StreamEvent{Type: EventStatusChanged, OldStatus: ch.OldStatus, Order: ch.Order}:
		case <-ctx.Done():
		}
	})

	if err := writeEvent(conn, StreamEvent{Type: EventSnapshot, Order: initial}); err != nil {
		return
	}

	session := loop.Start(ctx, initial)
	defer session.Stop()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if err := writeEvent(conn, ev); err != nil {
				return
			}
		case <-session.Done():
			if err := drain(conn, events); err != nil {
				return
			}
			if ctx.Err() == nil {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "order closed"),
					time.Now().Add(writeWait))
				h.logger.Debug("order_stream_closed", "Order reached a terminal status", requestID, map[string]interface{}{
					"order_id": id.String(),
				})
			}
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drain writes frames queued before the loop exited.
func drain(conn *websocket.Conn, events <-chan StreamEvent) error {
	for {
		select {
		case ev := <-events:
			if err := writeEvent(conn, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func writeEvent(conn *websocket.Conn, ev StreamEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

// readPump discards client frames and cancels the stream when the client goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
