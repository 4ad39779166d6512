package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/logging"
)

const (
	defaultKeepAlive = 25 * time.Second

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// streamOrders pushes the restaurant's order events as server-sent events, one
// JSON OrderEvent per message, until the client goes away.
func (h *Handler) streamOrders(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	restaurantID, err := restaurantParam(r, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := scope.Authorize(restaurantID); err != nil {
		writeError(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, errors.New("streaming unsupported by response writer"))
		return
	}

	sub := h.Events.Subscribe(restaurantID)
	defer sub.Close()

	log := logging.Ctx(r.Context()).With().Int64("restaurant_id", restaurantID).Str("transport", "sse").Logger()
	log.Info().Msg("order stream connected")
	defer func() {
		log.Info().Uint64("dropped", sub.Dropped()).Msg("order stream disconnected")
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(h.keepAlive())
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Warn().Err(err).Msg("failed to encode order event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: order\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// streamOrdersWS is the WebSocket variant of streamOrders. Scope is checked
// before the upgrade so a mismatch is still a plain 403.
func (h *Handler) streamOrdersWS(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	restaurantID, err := restaurantParam(r, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := scope.Authorize(restaurantID); err != nil {
		writeError(w, r, err)
		return
	}

	// Subscribed before the handshake completes so nothing published after it is missed.
	sub := h.Events.Subscribe(restaurantID)
	defer sub.Close()

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := logging.Ctx(r.Context()).With().Int64("restaurant_id", restaurantID).Str("transport", "websocket").Logger()
	log.Info().Msg("order stream connected")
	defer func() {
		log.Info().Uint64("dropped", sub.Dropped()).Msg("order stream disconnected")
	}()

	// The read side only exists to process pongs and notice the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) keepAlive() time.Duration {
	if h.KeepAlive <= 0 {
		return defaultKeepAlive
	}
	return h.KeepAlive
}
