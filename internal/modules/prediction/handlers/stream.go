package handlers

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const writeTimeout = 5 * time.Second

// HandleStream handles GET /ws/arbitrage. Each connection receives the
// latest scan on connect and every scan after it. Incoming messages are
// discarded.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected exit")

	ctx := conn.CloseRead(r.Context())

	updates, latest, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.log.Debug().Int("subscribers", h.hub.Subscribers()).Msg("Arbitrage stream subscriber connected")

	if latest != nil {
		if err := write(ctx, conn, latest); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := write(ctx, conn, msg); err != nil {
				h.log.Debug().Err(err).Msg("Arbitrage stream write failed")
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
