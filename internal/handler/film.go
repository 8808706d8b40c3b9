package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/model"
	"github.com/cinesync/cinesync/internal/repository"
)

// FilmStore is the catalog read path the film endpoints depend on.
type FilmStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Film, error)
	ListAll(ctx context.Context) ([]model.Film, error)
}

// FilmHandler serves the public, read-only film catalog.
type FilmHandler struct {
	Store FilmStore
}

func NewFilmHandler(store FilmStore) *FilmHandler { return &FilmHandler{Store: store} }

type filmResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	DurationMin uint32 `json:"duration_min,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Country     string `json:"country,omitempty"`
}

func toFilmResp(f model.Film) filmResp {
	return filmResp{ID: f.ID, Title: f.Title, DurationMin: f.DurationMin, Genre: f.Genre, Country: f.Country}
}

// List handles GET /v1/films.
func (h *FilmHandler) List(c echo.Context) error {
	films, err := h.Store.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]filmResp, 0, len(films))
	for _, f := range films {
		out = append(out, toFilmResp(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/films/:id.
func (h *FilmHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	f, err := h.Store.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toFilmResp(*f)})
}
