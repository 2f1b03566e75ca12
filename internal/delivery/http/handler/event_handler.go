package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"car-rental-admin/internal/service"
	"car-rental-admin/pkg/response"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// EventHandler streams booking events to websocket clients
type EventHandler struct {
	log          *logrus.Logger
	eventService service.BookingEventService
	upgrader     websocket.Upgrader

	done      chan struct{}
	closeOnce sync.Once
}

func NewEventHandler(log *logrus.Logger, eventService service.BookingEventService, checkOrigin func(r *http.Request) bool) *EventHandler {
	return &EventHandler{
		log:          log,
		eventService: eventService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		done: make(chan struct{}),
	}
}

// Close ends every open stream with a going-away close frame
func (h *EventHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// AllowOrigins builds a websocket origin check from the CORS allow-list
func AllowOrigins(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Stream upgrades the connection and forwards every booking event the caller may see
// @Router /bookings/events [get]
func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := h.eventService.Subscribe(ctx)
	if err != nil {
		h.log.Warnf("Failed to subscribe to booking events: %+v", err)
		response.InternalServerError(w, "Failed to subscribe to booking events")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		h.log.Warnf("Failed to upgrade websocket: %+v", err)
		return
	}
	defer conn.Close()

	// Reader: handles pongs and notices the client going away
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if caller.IsSupplier() && !event.VisibleTo(caller.UserID) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
