package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/booking"
	"github.com/cinesync/cinesync/internal/model"
	"github.com/cinesync/cinesync/internal/queue"
	"github.com/cinesync/cinesync/internal/repository"
)

// SessionStore loads a single session with film and auditorium joined.
type SessionStore interface {
	GetByID(ctx context.Context, id uint64) (*repository.SessionDetail, error)
}

// LayoutStore loads the seating rows a selection is validated against.
type LayoutStore interface {
	RowsFor(ctx context.Context, auditoriumID uint64) ([]model.Row, error)
}

// OccupancyStore answers which seats of a session are already ticketed.
type OccupancyStore interface {
	TicketsForSession(ctx context.Context, sessionID uint64) ([]model.Ticket, error)
}

// SessionHandler serves the seat-selection page data and accepts
// booking submissions.
type SessionHandler struct {
	Sessions  SessionStore
	Layouts   LayoutStore
	Occupancy OccupancyStore
	Booking   *booking.Service
	// Publish sends the confirmation event after a successful booking.
	// It runs outside the request path; a nil Publish disables events.
	Publish func(ctx context.Context, event queue.OrderConfirmedEvent) error
}

func NewSessionHandler(sessions SessionStore, layouts LayoutStore, occupancy OccupancyStore, svc *booking.Service) *SessionHandler {
	return &SessionHandler{
		Sessions:  sessions,
		Layouts:   layouts,
		Occupancy: occupancy,
		Booking:   svc,
		Publish:   queue.PublishOrderConfirmed,
	}
}

type rowPart struct {
	RowNumber uint32 `json:"row_number"`
	SeatCount uint32 `json:"seat_count"`
}

type sessionDetailResp struct {
	Session  repository.SessionDetail `json:"session"`
	Rows     []rowPart                `json:"rows"`
	Occupied []string                 `json:"occupied"`
}

type seatReq struct {
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

type bookReq struct {
	Seats []seatReq `json:"seats"`
}

type orderResp struct {
	ID               uint64    `json:"id"`
	SessionID        uint64    `json:"session_id"`
	TotalAmountCents uint32    `json:"total_amount_cents"`
	OrderedAt        time.Time `json:"ordered_at"`
	Seats            []string  `json:"seats"`
}

// Get handles GET /v1/sessions/:id: the session with its auditorium
// layout and the currently occupied seat keys, everything the seat
// picker needs in one response.
func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()

	det, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	rows, err := h.Layouts.RowsFor(ctx, det.AuditoriumID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	tickets, err := h.Occupancy.TicketsForSession(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := sessionDetailResp{
		Session:  *det,
		Rows:     make([]rowPart, 0, len(rows)),
		Occupied: make([]string, 0, len(tickets)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, rowPart{RowNumber: row.RowNumber, SeatCount: row.SeatCount})
	}
	for _, t := range tickets {
		resp.Occupied = append(resp.Occupied, t.Seat().Key())
	}
	return c.JSON(http.StatusOK, resp)
}

// Book handles POST /v1/sessions/:id/book. An invalid selection is a
// 400, a seat lost to a concurrent booking is a 409; on success the
// created order is returned with 201.
func (h *SessionHandler) Book(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	seats := make([]model.Seat, 0, len(req.Seats))
	for _, s := range req.Seats {
		seats = append(seats, model.Seat{Row: s.Row, Column: s.Column})
	}

	ctx := c.Request().Context()

	det, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	layout, err := h.Layouts.RowsFor(ctx, det.AuditoriumID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	order, err := h.Booking.Book(ctx, id, userID, det.PriceCents, seats, layout)
	if err != nil {
		var verr *booking.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
		case errors.Is(err, repository.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more selected seats are already taken"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	resp := orderResp{
		ID:               order.ID,
		SessionID:        order.SessionID,
		TotalAmountCents: order.TotalAmountCents,
		OrderedAt:        order.OrderedAt,
		Seats:            make([]string, 0, len(order.Tickets)),
	}
	for _, t := range order.Tickets {
		resp.Seats = append(resp.Seats, t.Seat().Key())
	}

	if h.Publish != nil {
		event := queue.OrderConfirmedEvent{
			OrderID:          order.ID,
			UserID:           userID,
			SessionID:        order.SessionID,
			FilmTitle:        det.FilmTitle,
			Auditorium:       det.Auditorium,
			StartsAt:         det.StartsAt.Format(time.RFC3339),
			Seats:            resp.Seats,
			TotalAmountCents: order.TotalAmountCents,
			OrderedAt:        order.OrderedAt.Format(time.RFC3339),
		}
		// The order is already committed; a broker problem must not
		// turn the response into an error.
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(pubCtx, event); err != nil {
				log.Printf("order %d: confirmation event not published: %v", event.OrderID, err)
			}
		}()
	}

	return c.JSON(http.StatusCreated, resp)
}
