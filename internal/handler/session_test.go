package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/cinesync/internal/booking"
	"github.com/cinesync/cinesync/internal/model"
	"github.com/cinesync/cinesync/internal/queue"
	"github.com/cinesync/cinesync/internal/repository"
)

type stubSessionStore struct {
	detail *repository.SessionDetail
	err    error
}

func (s *stubSessionStore) GetByID(ctx context.Context, id uint64) (*repository.SessionDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

type stubLayoutStore struct {
	rows []model.Row
}

func (s *stubLayoutStore) RowsFor(ctx context.Context, auditoriumID uint64) ([]model.Row, error) {
	return s.rows, nil
}

type stubOccupancyStore struct {
	tickets []model.Ticket
}

func (s *stubOccupancyStore) TicketsForSession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	return s.tickets, nil
}

type stubOrderPlacer struct {
	err    error
	placed *model.Order
	calls  int
}

func (s *stubOrderPlacer) PlaceOrder(ctx context.Context, sessionID, userID uint64, priceCents uint32, seats []model.Seat, placedAt time.Time) (*model.Order, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	order := &model.Order{
		ID:               42,
		SessionID:        sessionID,
		UserID:           userID,
		TotalAmountCents: priceCents * uint32(len(seats)),
		OrderedAt:        placedAt,
	}
	for _, seat := range seats {
		order.Tickets = append(order.Tickets, model.Ticket{
			OrderID: order.ID, SessionID: sessionID,
			RowNumber: seat.Row, ColumnNumber: seat.Column,
		})
	}
	s.placed = order
	return order, nil
}

func testDetail() *repository.SessionDetail {
	return &repository.SessionDetail{
		ID:           7,
		StartsAt:     time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC),
		PriceCents:   1200,
		FilmID:       3,
		FilmTitle:    "Stalker",
		DurationMin:  162,
		AuditoriumID: 2,
		Auditorium:   "2",
	}
}

func newBookingHandler(placer *stubOrderPlacer, occupied []model.Ticket) *SessionHandler {
	return &SessionHandler{
		Sessions:  &stubSessionStore{detail: testDetail()},
		Layouts:   &stubLayoutStore{rows: []model.Row{{RowNumber: 1, SeatCount: 10}, {RowNumber: 2, SeatCount: 8}}},
		Occupancy: &stubOccupancyStore{tickets: occupied},
		Booking:   booking.NewService(placer),
		Publish:   nil,
	}
}

func doRequest(h echo.HandlerFunc, method, target, body string, userID interface{}) *httptest.ResponseRecorder {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(target)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if userID != nil {
		c.Set("user_id", userID)
	}
	_ = h(c)
	return rec
}

func TestSessionGetIncludesLayoutAndOccupancy(t *testing.T) {
	occupied := []model.Ticket{
		{RowNumber: 1, ColumnNumber: 4},
		{RowNumber: 2, ColumnNumber: 1},
	}
	h := newBookingHandler(&stubOrderPlacer{}, occupied)

	rec := doRequest(h.Get, http.MethodGet, "/v1/sessions/:id", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Session  repository.SessionDetail `json:"session"`
		Rows     []rowPart                `json:"rows"`
		Occupied []string                 `json:"occupied"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.Session.ID)
	assert.Equal(t, "Stalker", resp.Session.FilmTitle)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, uint32(10), resp.Rows[0].SeatCount)
	assert.Equal(t, []string{"1-4", "2-1"}, resp.Occupied)
}

func TestSessionGetNotFound(t *testing.T) {
	h := newBookingHandler(&stubOrderPlacer{}, nil)
	h.Sessions = &stubSessionStore{err: repository.ErrSessionNotFound}

	rec := doRequest(h.Get, http.MethodGet, "/v1/sessions/:id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookCreatesOrder(t *testing.T) {
	placer := &stubOrderPlacer{}
	h := newBookingHandler(placer, nil)

	body := `{"seats":[{"row":1,"column":4},{"row":2,"column":1}]}`
	rec := doRequest(h.Book, http.MethodPost, "/v1/sessions/:id/book", body, uint64(9))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp orderResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.ID)
	assert.Equal(t, uint64(7), resp.SessionID)
	assert.Equal(t, uint32(2400), resp.TotalAmountCents)
	assert.Equal(t, []string{"1-4", "2-1"}, resp.Seats)
	require.NotNil(t, placer.placed)
	assert.Equal(t, uint64(9), placer.placed.UserID)
}

func TestBookRejectsInvalidSelection(t *testing.T) {
	placer := &stubOrderPlacer{}
	h := newBookingHandler(placer, nil)

	cases := []struct {
		name string
		body string
	}{
		{"empty selection", `{"seats":[]}`},
		{"unknown row", `{"seats":[{"row":5,"column":1}]}`},
		{"column out of range", `{"seats":[{"row":2,"column":9}]}`},
		{"duplicate seat", `{"seats":[{"row":1,"column":1},{"row":1,"column":1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(h.Book, http.MethodPost, "/v1/sessions/:id/book", tc.body, uint64(9))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, placer.calls, "invalid selections must not reach the store")
}

func TestBookSeatConflictIs409(t *testing.T) {
	placer := &stubOrderPlacer{err: repository.ErrSeatTaken}
	h := newBookingHandler(placer, nil)

	body := `{"seats":[{"row":1,"column":4}]}`
	rec := doRequest(h.Book, http.MethodPost, "/v1/sessions/:id/book", body, uint64(9))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookPublishesConfirmationEvent(t *testing.T) {
	placer := &stubOrderPlacer{}
	h := newBookingHandler(placer, nil)

	published := make(chan queue.OrderConfirmedEvent, 1)
	h.Publish = func(ctx context.Context, event queue.OrderConfirmedEvent) error {
		published <- event
		return nil
	}

	body := `{"seats":[{"row":1,"column":4}]}`
	rec := doRequest(h.Book, http.MethodPost, "/v1/sessions/:id/book", body, uint64(9))
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case event := <-published:
		assert.Equal(t, uint64(42), event.OrderID)
		assert.Equal(t, "Stalker", event.FilmTitle)
		assert.Equal(t, []string{"1-4"}, event.Seats)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation event was not published")
	}
}
