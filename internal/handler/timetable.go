package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/repository"
	"github.com/cinesync/cinesync/internal/timetable"
)

// TimetableStore is the schedule read path the timetable endpoints
// depend on.
type TimetableStore interface {
	NearestTimetable(ctx context.Context) ([]repository.SessionDetail, error)
	AllTimetable(ctx context.Context) ([]repository.SessionDetail, error)
}

// TimetableHandler serves the public timetable: upcoming sessions
// grouped by date, then by film, each film's sessions sorted by start
// time.
type TimetableHandler struct {
	Store TimetableStore
}

func NewTimetableHandler(store TimetableStore) *TimetableHandler {
	return &TimetableHandler{Store: store}
}

// All handles GET /v1/timetable: every upcoming session, grouped.
func (h *TimetableHandler) All(c echo.Context) error {
	sessions, err := h.Store.AllTimetable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"days": timetable.Group(sessions)})
}

// Nearest handles GET /v1/timetable/nearest: sessions in the next five
// days, grouped.
func (h *TimetableHandler) Nearest(c echo.Context) error {
	sessions, err := h.Store.NearestTimetable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"days": timetable.Group(sessions)})
}
