// Package router wires the HTTP handlers onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinesync/cinesync/internal/handler"
	"github.com/cinesync/cinesync/internal/middleware"
)

// RegisterRoutes registers routes that require neither authentication
// nor any backing store. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// timetable and the film catalog. The extra middleware (typically the
// Redis response cache) applies only to these routes.
func RegisterPublic(e *echo.Echo, t *handler.TimetableHandler, f *handler.FilmHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/timetable", t.All)
	g.GET("/timetable/nearest", t.Nearest)
	g.GET("/films", f.List)
	g.GET("/films/:id", f.Get)
}

// RegisterAuth registers the authentication endpoints. Register, login
// and the token exchange routes live under /v1/auth and need no JWT;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(handler.RoleCustomer))
	auth.GET("/me", a.Me)
}
