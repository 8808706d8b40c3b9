package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/repository"
)

// OrderStore is the order read path the customer order endpoints use.
type OrderStore interface {
	GetByIDForUser(ctx context.Context, orderID, userID uint64) (*repository.OrderDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.OrderDetail, error)
}

// OrderHandler serves a customer's own orders.
type OrderHandler struct {
	Store OrderStore
}

func NewOrderHandler(store OrderStore) *OrderHandler { return &OrderHandler{Store: store} }

// ListMine handles GET /v1/my-orders: the authenticated user's orders,
// newest first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// Get handles GET /v1/orders/:id. An order belonging to another user is
// reported as not found rather than forbidden, so order IDs cannot be
// probed.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	det, err := h.Store.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}
