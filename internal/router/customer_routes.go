package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/handler"
	"github.com/cinesync/cinesync/internal/middleware"
)

// RegisterCustomer registers the booking endpoints under /v1. All
// routes require a valid JWT with the CUSTOMER role: viewing a
// session's seat map, booking seats, and listing or inspecting the
// customer's own orders.
func RegisterCustomer(e *echo.Echo, s *handler.SessionHandler, o *handler.OrderHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleCustomer),
	)
	g.GET("/sessions/:id", s.Get)
	g.POST("/sessions/:id/book", s.Book)
	g.GET("/my-orders", o.ListMine)
	g.GET("/orders/:id", o.Get)
}
