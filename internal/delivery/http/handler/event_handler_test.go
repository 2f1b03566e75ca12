package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanEventService struct {
	events chan dto.BookingEvent
}

func (s *chanEventService) Publish(ctx context.Context, event dto.BookingEvent) error {
	s.events <- event
	return nil
}

func (s *chanEventService) Subscribe(ctx context.Context) (<-chan dto.BookingEvent, error) {
	return s.events, nil
}

func dialEvents(t *testing.T, h *EventHandler, caller usecase.Caller) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Stream(w, asCaller(r, caller))
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEventHandler_SupplierOnlySeesOwnBookings(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	events := &chanEventService{events: make(chan dto.BookingEvent, 2)}
	h := NewEventHandler(log, events, AllowOrigins([]string{"*"}))

	supplier := usecase.Caller{UserID: uuid.New(), RoleID: entity.RoleIDSupplier}
	conn := dialEvents(t, h, supplier)

	other := dto.BookingEvent{Type: dto.BookingEventDeleted, IDs: []uuid.UUID{uuid.New()}, Companies: []uuid.UUID{uuid.New()}}
	own := dto.BookingEvent{Type: dto.BookingEventStatusUpdated, IDs: []uuid.UUID{uuid.New()}, Companies: []uuid.UUID{supplier.UserID}, Status: "paid"}
	events.events <- other
	events.events <- own

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got dto.BookingEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, own.IDs, got.IDs)
	assert.Equal(t, "paid", got.Status)
}

func TestEventHandler_CloseEndsStreams(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewEventHandler(log, &chanEventService{events: make(chan dto.BookingEvent)}, AllowOrigins([]string{"*"}))

	conn := dialEvents(t, h, adminCaller)
	h.Close()
	h.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
